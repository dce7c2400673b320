package catalog

import "toolstore/internal/models"

// TreeSelectNode is one entry of the admin parent picker.
type TreeSelectNode struct {
	Value    models.ID        `json:"value"`
	Label    string           `json:"label"`
	Children []TreeSelectNode `json:"children,omitempty"`
}

// BuildParentOptions maps the forest to picker options. Nodes without an
// id or a name are skipped together with their subtree. Children is left
// nil for leaves so the key is omitted when encoded.
func BuildParentOptions(tree Forest) []TreeSelectNode {
	return BuildParentOptionsExcluding(tree, "")
}

// BuildParentOptionsExcluding is BuildParentOptions without the category
// being edited and its subtree, since none of them can become its parent.
func BuildParentOptionsExcluding(tree Forest, exclude models.ID) []TreeSelectNode {
	out := buildOptions(tree, exclude)
	if out == nil {
		out = []TreeSelectNode{}
	}
	return out
}

func buildOptions(nodes []models.CategoryNode, exclude models.ID) []TreeSelectNode {
	var out []TreeSelectNode
	for _, n := range nodes {
		if n.ID.IsZero() || n.Name == "" {
			continue
		}
		if !exclude.IsZero() && n.ID == exclude {
			continue
		}
		opt := TreeSelectNode{Value: n.ID, Label: n.Name}
		if len(n.Children) > 0 {
			opt.Children = buildOptions(n.Children, exclude)
		}
		out = append(out, opt)
	}
	return out
}
