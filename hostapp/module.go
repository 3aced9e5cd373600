package hostapp

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// ModuleName is the predeclared name of the host API in payloads.
const ModuleName = "host"

// Module exposes s to payloads as the "host" module.
func Module(s *State) *starlarkstruct.Module {
	api := &hostAPI{state: s}
	return &starlarkstruct.Module{
		Name: ModuleName,
		Members: starlark.StringDict{
			"version":  starlark.String(Version),
			"objects":  starlark.NewBuiltin("objects", api.objects),
			"add":      starlark.NewBuiltin("add", api.add),
			"remove":   starlark.NewBuiltin("remove", api.remove),
			"move":     starlark.NewBuiltin("move", api.move),
			"location": starlark.NewBuiltin("location", api.location),
			"frame":    starlark.NewBuiltin("frame", api.frame),
			"texts":    starlark.NewBuiltin("texts", api.texts),
			"text":     starlark.NewBuiltin("text", api.text),
		},
	}
}

type hostAPI struct {
	state *State
}

func (h *hostAPI) objects(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return stringList(h.state.Objects()), nil
}

func (h *hostAPI) add(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var x, y, z starlark.Value = starlark.MakeInt(0), starlark.MakeInt(0), starlark.MakeInt(0)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "x?", &x, "y?", &y, "z?", &z); err != nil {
		return nil, err
	}
	loc, err := vector(b.Name(), x, y, z)
	if err != nil {
		return nil, err
	}
	if err := h.state.Add(name, loc); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.None, nil
}

func (h *hostAPI) remove(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	if err := h.state.Remove(name); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.None, nil
}

func (h *hostAPI) move(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var x, y, z starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "x", &x, "y", &y, "z", &z); err != nil {
		return nil, err
	}
	loc, err := vector(b.Name(), x, y, z)
	if err != nil {
		return nil, err
	}
	if err := h.state.Move(name, loc); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.None, nil
}

func (h *hostAPI) location(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	loc, err := h.state.Location(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.Tuple{starlark.Float(loc[0]), starlark.Float(loc[1]), starlark.Float(loc[2])}, nil
}

func (h *hostAPI) frame(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.MakeInt(h.state.Frame()), nil
}

func (h *hostAPI) texts(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return stringList(h.state.Texts()), nil
}

func (h *hostAPI) text(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	text, ok := h.state.Text(name)
	if !ok {
		return starlark.None, nil
	}
	return starlark.String(text), nil
}

func vector(fn string, x, y, z starlark.Value) (Vector, error) {
	var v Vector
	for i, arg := range []starlark.Value{x, y, z} {
		f, ok := starlark.AsFloat(arg)
		if !ok {
			return Vector{}, fmt.Errorf("%s: coordinate %d: got %s, want number", fn, i, arg.Type())
		}
		v[i] = f
	}
	return v, nil
}

func stringList(items []string) *starlark.List {
	elems := make([]starlark.Value, len(items))
	for i, s := range items {
		elems[i] = starlark.String(s)
	}
	return starlark.NewList(elems)
}
