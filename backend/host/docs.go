package host

import (
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
)

var docs = map[string]tooldoc.DocEntry{
	ToolEval: {
		Summary: "Evaluate an expression in the host application and return its value.",
		Notes: "The host module is predeclared. Strings come back without quotes and " +
			"None comes back as an empty result. If evaluation fails the traceback " +
			"text is returned instead of a value.",
		Examples: []tooldoc.ToolExample{
			{
				ID:          "list-objects",
				Title:       "List scene objects",
				Description: "Return the names of all objects in the scene.",
				Args:        map[string]any{"expression": "host.objects()"},
				ResultHint:  `["Camera", "Cube"]`,
			},
		},
	},
	ToolExec: {
		Summary: "Execute statements in the host application.",
		Notes: "Top-level assignments persist across calls. The result is empty on " +
			"success; if an error occurs the traceback text is returned.",
		Examples: []tooldoc.ToolExample{
			{
				ID:          "add-object",
				Title:       "Add an object",
				Description: "Create an object one unit above the origin.",
				Args:        map[string]any{"code": `host.add("Cube", 0, 0, 1)`},
				ResultHint:  "empty",
			},
		},
	},
}

// Doc returns the documentation entry for a host tool. Tools from other
// backends get their description as summary.
func Doc(tool model.Tool) tooldoc.DocEntry {
	if d, ok := docs[tool.Name]; ok {
		return d
	}
	return tooldoc.DocEntry{Summary: tool.Description}
}
