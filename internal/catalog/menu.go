package catalog

import (
	"net/url"
	"strings"

	"toolstore/internal/models"
)

// CategoryRoute is the public route prefix for category pages.
const CategoryRoute = "/product-category/"

// MenuItem is one navigation entry. Items with children are submenu
// labels and carry no link.
type MenuItem struct {
	Key      string     `json:"key"`
	Label    string     `json:"label"`
	Link     string     `json:"link,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// CategoryLink returns the public route for a slug path. Each segment is
// escaped on its own so a slash inside a slug stays one segment.
func CategoryLink(prefix string, slugs []string) string {
	if prefix == "" {
		prefix = CategoryRoute
	}
	escaped := make([]string, len(slugs))
	for i, s := range slugs {
		escaped[i] = url.PathEscape(s)
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.Join(escaped, "/")
}

// BuildNavigationMenu builds one menu item per category. Leaves link to
// prefix + the slug path from their root; an empty prefix means
// CategoryRoute.
func BuildNavigationMenu(tree Forest, prefix string) []MenuItem {
	out := buildMenu(tree, prefix, nil)
	if out == nil {
		out = []MenuItem{}
	}
	return out
}

func buildMenu(nodes []models.CategoryNode, prefix string, parent []string) []MenuItem {
	var out []MenuItem
	for _, n := range nodes {
		path := append(parent[:len(parent):len(parent)], n.Slug)
		item := MenuItem{Key: n.ID.String(), Label: n.Name}
		if !n.IsLeaf() {
			item.Children = buildMenu(n.Children, prefix, path)
		} else {
			item.Link = CategoryLink(prefix, path)
		}
		out = append(out, item)
	}
	return out
}

// CountItems returns the number of items in a menu, submenus included.
func CountItems(items []MenuItem) int {
	n := len(items)
	for _, it := range items {
		n += CountItems(it.Children)
	}
	return n
}
