// Package catalog indexes the bridge's tools for lookup, search and
// documentation.
//
// Tools are read from a backend.Aggregator and registered in a tooldiscovery
// in-memory index with BM25 search; their documentation lives in a tooldoc
// store bound to that index.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/search"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/hostbridge/backend"
)

// ErrToolNotFound is returned for IDs that were never registered.
var ErrToolNotFound = errors.New("catalog: tool not found")

// DocFunc supplies documentation for a tool.
type DocFunc func(tool model.Tool) tooldoc.DocEntry

// Entry is one registered tool.
type Entry struct {
	ID   string
	Tool model.Tool
}

// Catalog is the searchable set of exposed tools.
type Catalog struct {
	idx  index.Index
	docs *tooldoc.InMemoryStore

	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty catalog.
func New() *Catalog {
	idx := index.NewInMemoryIndex(index.IndexOptions{
		Searcher: search.NewBM25Searcher(search.BM25Config{}),
	})
	return &Catalog{
		idx:     idx,
		docs:    tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: idx}),
		entries: make(map[string]Entry),
	}
}

// Register adds one tool and its documentation.
func (c *Catalog) Register(tool model.Tool, doc tooldoc.DocEntry) (string, error) {
	if tool.Namespace == "" {
		return "", fmt.Errorf("catalog: tool %q has no namespace", tool.Name)
	}
	id := backend.FormatToolID(tool.Namespace, tool.Name)

	if err := c.idx.RegisterTool(tool, model.NewLocalBackend(tool.Namespace)); err != nil {
		return "", fmt.Errorf("catalog: index %s: %w", id, err)
	}
	if doc.Summary == "" {
		doc.Summary = tool.Description
	}
	if err := c.docs.RegisterDoc(id, doc); err != nil {
		return "", fmt.Errorf("catalog: document %s: %w", id, err)
	}

	c.mu.Lock()
	c.entries[id] = Entry{ID: id, Tool: tool}
	c.mu.Unlock()
	return id, nil
}

// Load registers every tool the aggregator exposes. A nil doc uses each
// tool's description as its summary.
func (c *Catalog) Load(ctx context.Context, agg *backend.Aggregator, doc DocFunc) error {
	tools, err := agg.ListAllTools(ctx)
	if err != nil {
		return fmt.Errorf("catalog: list tools: %w", err)
	}
	for _, tool := range tools {
		var entry tooldoc.DocEntry
		if doc != nil {
			entry = doc(tool)
		}
		if _, err := c.Register(tool, entry); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns all registered tools sorted by ID.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tool returns a registered tool by ID.
func (c *Catalog) Tool(id string) (model.Tool, error) {
	c.mu.RLock()
	_, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	tool, _, err := c.idx.GetTool(id)
	if err != nil {
		return model.Tool{}, fmt.Errorf("%w: %s: %v", ErrToolNotFound, id, err)
	}
	return tool, nil
}

// Describe returns the full documentation of a tool.
func (c *Catalog) Describe(id string) (tooldoc.ToolDoc, error) {
	c.mu.RLock()
	_, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return tooldoc.ToolDoc{}, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	return c.docs.DescribeTool(id, tooldoc.DetailFull)
}

// Examples returns up to max usage examples for a tool.
func (c *Catalog) Examples(id string, max int) ([]tooldoc.ToolExample, error) {
	return c.docs.ListExamples(id, max)
}

// Search finds tools matching query.
func (c *Catalog) Search(query string, limit int) ([]index.Summary, error) {
	return c.idx.Search(query, limit)
}

// Namespaces lists the namespaces with at least one tool.
func (c *Catalog) Namespaces() ([]string, error) {
	return c.idx.ListNamespaces()
}
