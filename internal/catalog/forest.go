package catalog

import (
	"errors"
	"fmt"
	"strings"

	"toolstore/internal/api"
	"toolstore/internal/models"
)

// ErrInvalidParent is returned by ValidateParent.
var ErrInvalidParent = errors.New("invalid parent category")

// Forest is a normalized category forest in display order.
type Forest []models.CategoryNode

// Walk visits every node depth-first, pre-order, passing the slug path
// from its root. Returning false stops descending into that node.
func (f Forest) Walk(fn func(n *models.CategoryNode, path []string) bool) {
	var walk func(nodes []models.CategoryNode, path []string)
	walk = func(nodes []models.CategoryNode, path []string) {
		for i := range nodes {
			n := &nodes[i]
			p := append(path[:len(path):len(path)], n.Slug)
			if fn(n, p) && len(n.Children) > 0 {
				walk(n.Children, p)
			}
		}
	}
	walk(f, nil)
}

// Count returns the number of nodes in the forest.
func (f Forest) Count() int {
	count := 0
	f.Walk(func(*models.CategoryNode, []string) bool {
		count++
		return true
	})
	return count
}

// Find returns the node with the given id, or nil.
func (f Forest) Find(id models.ID) *models.CategoryNode {
	var found *models.CategoryNode
	f.Walk(func(n *models.CategoryNode, _ []string) bool {
		if found == nil && n.ID == id {
			found = n
		}
		return found == nil
	})
	return found
}

// FindBySlug returns the node with the given slug. Slugs are treated as
// globally unique; a slug shared by several nodes is ErrMalformedTree.
func (f Forest) FindBySlug(slug string) (*models.CategoryNode, error) {
	var matches []*models.CategoryNode
	f.Walk(func(n *models.CategoryNode, _ []string) bool {
		if n.Slug == slug {
			matches = append(matches, n)
		}
		return true
	})
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("category %q: %w", slug, api.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: slug %q used by %d categories", api.ErrMalformedTree, slug, len(matches))
	}
}

// Path returns the slugs from the root down to the node with the given
// id, or nil when the id is not in the forest.
func (f Forest) Path(id models.ID) []string {
	var path []string
	f.Walk(func(n *models.CategoryNode, p []string) bool {
		if path == nil && n.ID == id {
			path = append([]string(nil), p...)
		}
		return path == nil
	})
	return path
}

// IsDescendant reports whether candidate sits anywhere below ancestor.
func (f Forest) IsDescendant(ancestor, candidate models.ID) bool {
	root := f.Find(ancestor)
	if root == nil {
		return false
	}
	return Forest(root.Children).Find(candidate) != nil
}

// ValidateParent checks that parentID is an acceptable parent for the
// category id. A zero parentID makes a root and is always accepted; a zero
// id is a new category. The parent must exist and must not be the
// category itself or one of its descendants.
func (f Forest) ValidateParent(id, parentID models.ID) error {
	if parentID.IsZero() {
		return nil
	}
	if f.Find(parentID) == nil {
		return fmt.Errorf("%w: parent %q does not exist", ErrInvalidParent, parentID)
	}
	if id.IsZero() {
		return nil
	}
	if parentID == id {
		return fmt.Errorf("%w: a category cannot be its own parent", ErrInvalidParent)
	}
	if f.IsDescendant(id, parentID) {
		return fmt.Errorf("%w: parent %q (%s) is a descendant of %q",
			ErrInvalidParent, parentID, strings.Join(f.Path(parentID), "/"), id)
	}
	return nil
}
