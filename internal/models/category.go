// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is one node of the self-referential product category tree.
// Slugs are treated as globally unique even though the backend only
// guarantees uniqueness among siblings.
type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ParentID    *ID    `json:"parentId"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ParentKey returns the parent id, or the zero id for roots.
func (c *Category) ParentKey() ID {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

// CategoryNode is a Category together with its ordered children.
// A nil and an empty Children slice both mean leaf.
type CategoryNode struct {
	Category
	Children []CategoryNode `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *CategoryNode) IsLeaf() bool {
	return len(n.Children) == 0
}
