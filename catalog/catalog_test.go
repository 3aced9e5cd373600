package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/hostbridge/backend"
	"github.com/jonwraymond/hostbridge/backend/host"
)

// nopBridge satisfies host.Bridge without a process.
type nopBridge struct{}

func (nopBridge) Evaluate(context.Context, string) (string, error) { return "", nil }
func (nopBridge) Execute(context.Context, string) (string, error)  { return "", nil }
func (nopBridge) Close() error                                     { return nil }

func loadedCatalog(t *testing.T) *Catalog {
	t.Helper()
	reg := backend.NewRegistry()
	if err := reg.Register(host.New("host", nopBridge{})); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	c := New()
	if err := c.Load(context.Background(), backend.NewAggregator(reg), host.Doc); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestCatalog_Load(t *testing.T) {
	c := loadedCatalog(t)

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() returned %d, want 2", len(entries))
	}
	if entries[0].ID != "host:eval" || entries[1].ID != "host:exec" {
		t.Errorf("Entries() IDs = %s, %s", entries[0].ID, entries[1].ID)
	}

	tool, err := c.Tool("host:exec")
	if err != nil {
		t.Fatalf("Tool() error = %v", err)
	}
	if tool.Name != "exec" {
		t.Errorf("Tool().Name = %q, want exec", tool.Name)
	}
}

func TestCatalog_Describe(t *testing.T) {
	c := loadedCatalog(t)

	doc, err := c.Describe("host:eval")
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if !strings.Contains(doc.Summary, "Evaluate an expression") {
		t.Errorf("Summary = %q", doc.Summary)
	}
	if !strings.Contains(doc.Notes, "traceback") {
		t.Errorf("Notes = %q, want failure behavior", doc.Notes)
	}
	if doc.Tool == nil || doc.Tool.Name != "eval" {
		t.Errorf("doc.Tool = %v, want eval", doc.Tool)
	}

	if _, err := c.Describe("host:render"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("Describe(unknown) error = %v, want ErrToolNotFound", err)
	}
	if _, err := c.Tool("host:render"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("Tool(unknown) error = %v, want ErrToolNotFound", err)
	}
}

func TestCatalog_Search(t *testing.T) {
	c := loadedCatalog(t)

	results, err := c.Search("expression", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search() returned no results")
	}
	found := false
	for _, r := range results {
		if r.ID == "host:eval" {
			found = true
		}
	}
	if !found {
		t.Errorf("Search(expression) = %v, want host:eval", results)
	}

	namespaces, err := c.Namespaces()
	if err != nil {
		t.Fatalf("Namespaces() error = %v", err)
	}
	if len(namespaces) != 1 || namespaces[0] != "host" {
		t.Errorf("Namespaces() = %v, want [host]", namespaces)
	}
}

func TestCatalog_RegisterDefaultsSummary(t *testing.T) {
	c := New()
	tool := model.Tool{
		Tool: mcp.Tool{
			Name:        "status",
			Description: "Report host status",
			InputSchema: map[string]any{"type": "object"},
		},
		Namespace: "diag",
	}
	id, err := c.Register(tool, tooldoc.DocEntry{})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if id != "diag:status" {
		t.Errorf("Register() id = %q", id)
	}
	doc, err := c.Describe(id)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if doc.Summary != "Report host status" {
		t.Errorf("Summary = %q, want description", doc.Summary)
	}
}

func TestCatalog_RegisterRequiresNamespace(t *testing.T) {
	c := New()
	tool := model.Tool{Tool: mcp.Tool{Name: "orphan", InputSchema: map[string]any{"type": "object"}}}
	if _, err := c.Register(tool, tooldoc.DocEntry{}); err == nil {
		t.Error("Register() without namespace should fail")
	}
}

func TestCatalog_Examples(t *testing.T) {
	c := loadedCatalog(t)

	examples, err := c.Examples("host:exec", 5)
	if err != nil {
		t.Fatalf("Examples() error = %v", err)
	}
	if len(examples) != 1 {
		t.Fatalf("Examples() = %d, want 1", len(examples))
	}
	if examples[0].ID != "add-object" {
		t.Errorf("Examples()[0].ID = %q, want add-object", examples[0].ID)
	}
}
