// Package backend provides the tool backend abstraction, registry and
// aggregator used to expose host applications as tools.
//
// A backend owns a set of tools under one namespace. The bridge registers a
// [host] backend per supervised application; the Aggregator routes a
// "namespace:tool" ID to the right backend:
//
//	registry := backend.NewRegistry()
//	_ = registry.Register(hostBackend)
//
//	agg := backend.NewAggregator(registry)
//	tools, _ := agg.ListAllTools(ctx)
//	text, _ := agg.Execute(ctx, "host:eval", map[string]any{"expression": "1 + 1"})
//
// [host]: github.com/jonwraymond/hostbridge/backend/host
package backend
