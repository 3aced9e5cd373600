package hostapp

import (
	"strings"
	"testing"

	"go.starlark.net/starlark"

	"github.com/jonwraymond/hostbridge/script"
)

func newScriptedState(t *testing.T) (*State, *script.Interpreter) {
	t.Helper()
	s := NewState(nil)
	interp := script.New(script.Config{
		Predeclared: starlark.StringDict{ModuleName: Module(s)},
	})
	return s, interp
}

func TestModule_Calls(t *testing.T) {
	s, interp := newScriptedState(t)

	if err := interp.Exec("host.add(\"Cube\", 1, 2.5, z=3)\nhost.add(\"Lamp\")\n"); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if got := s.Objects(); len(got) != 2 {
		t.Fatalf("Objects() = %v", got)
	}

	tests := []struct {
		code string
		want string
	}{
		{"host.objects()", `["Cube", "Lamp"]`},
		{`host.location("Cube")`, "(1.0, 2.5, 3.0)"},
		{"host.frame()", "0"},
		{"host.version", Version},
		{`host.text("missing")`, ""},
	}
	for _, tt := range tests {
		got, _, err := interp.Eval(tt.code)
		if err != nil {
			t.Errorf("Eval(%q) error = %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Eval(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}

	if err := interp.Exec(`host.move("Lamp", 0, 0, 9)`); err != nil {
		t.Fatalf("Exec(move) error = %v", err)
	}
	if loc, _ := s.Location("Lamp"); loc != (Vector{0, 0, 9}) {
		t.Errorf("Location(Lamp) = %v", loc)
	}
	if err := interp.Exec(`host.remove("Lamp")`); err != nil {
		t.Fatalf("Exec(remove) error = %v", err)
	}
	if got := s.Objects(); len(got) != 1 {
		t.Errorf("Objects() after remove = %v", got)
	}
}

func TestModule_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"unknown object", `host.location("nope")`, "object not found"},
		{"bad coordinate", `host.add("A", "x")`, "want number"},
		{"missing argument", `host.move("A")`, "missing argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, interp := newScriptedState(t)
			_, _, err := interp.Eval(tt.code)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestModule_WrongThreadSurfacesAsTrace(t *testing.T) {
	s := NewState(func() bool { return false })
	interp := script.New(script.Config{
		Predeclared: starlark.StringDict{ModuleName: Module(s)},
	})
	err := interp.Exec(`host.add("Cube")`)
	if err == nil {
		t.Fatal("expected error")
	}
	trace := interp.FormatTrace(err)
	if !strings.Contains(trace, "off the main thread") {
		t.Errorf("trace = %q, want wrong-thread message", trace)
	}
}
