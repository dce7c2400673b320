// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog turns the backend's category payload into a forest and
// derives the navigation menu, breadcrumbs and admin parent options from it.
package catalog

import (
	"log/slog"

	"toolstore/internal/models"
)

// MaxDepth bounds how many levels of the category tree are kept.
const MaxDepth = 32

// Report counts what Normalize had to repair.
type Report struct {
	Nodes      int // nodes in the resulting forest
	Orphans    int // nodes whose parent was missing, promoted to roots
	Duplicates int // repeated ids that disagree with the first occurrence, dropped
	Relisted   int // repeated ids identical to the first occurrence
	Anonymous  int // nodes without an id, dropped
	Cyclic     int // nodes unreachable from any root, dropped
	Truncated  int // nodes below MaxDepth, dropped
}

// Clean reports whether the payload needed no repair beyond re-rooting.
// A node listed both nested and flat under the same parent, with the same
// name and slug, is not a repair.
func (r Report) Clean() bool {
	return r.Duplicates == 0 && r.Anonymous == 0 && r.Cyclic == 0 && r.Truncated == 0
}

// flatNode is one payload node with its effective parent.
type flatNode struct {
	cat    models.Category
	parent models.ID
}

// sameListing reports whether c under parent repeats the recorded node.
func (f *flatNode) sameListing(c models.Category, parent models.ID) bool {
	return f.parent == parent && f.cat.Slug == c.Slug && f.cat.Name == c.Name
}

// Normalize rebuilds an untrusted category payload into a well-formed
// forest. The payload may be nested, flat, or a mix: a node nested under
// another keeps that parent, otherwise its parentId is followed. Nodes
// whose parent is absent become roots. Nodes caught in parent cycles are
// dropped, and so is everything below MaxDepth. Sibling order follows the
// payload. Every returned node's ParentID names its actual parent.
func Normalize(raw []models.CategoryNode) ([]models.CategoryNode, Report) {
	var rep Report

	byID := make(map[models.ID]*flatNode)
	var order []models.ID
	flatten(raw, "", false, byID, &order, &rep)

	children := make(map[models.ID][]models.ID, len(order))
	var roots []models.ID
	for _, id := range order {
		n := byID[id]
		switch {
		case n.parent.IsZero():
			roots = append(roots, id)
		case byID[n.parent] == nil:
			rep.Orphans++
			n.parent = ""
			roots = append(roots, id)
		default:
			children[n.parent] = append(children[n.parent], id)
		}
	}

	visited := make(map[models.ID]bool, len(order))
	var build func(id models.ID, depth int) models.CategoryNode
	build = func(id models.ID, depth int) models.CategoryNode {
		visited[id] = true
		rep.Nodes++
		n := byID[id]
		node := models.CategoryNode{Category: n.cat}
		node.ParentID = models.IDPtr(n.parent)

		for _, childID := range children[id] {
			if visited[childID] {
				continue
			}
			if depth+1 >= MaxDepth {
				rep.Truncated += markSubtree(childID, children, visited)
				continue
			}
			node.Children = append(node.Children, build(childID, depth+1))
		}
		return node
	}

	forest := make([]models.CategoryNode, 0, len(roots))
	for _, id := range roots {
		forest = append(forest, build(id, 0))
	}

	for _, id := range order {
		if !visited[id] {
			rep.Cyclic++
			slog.Warn("category dropped: parent chain never reaches a root",
				"id", id, "slug", byID[id].cat.Slug, "parent_id", byID[id].parent)
		}
	}

	if !rep.Clean() {
		slog.Warn("category tree repaired",
			"nodes", rep.Nodes,
			"orphans", rep.Orphans,
			"duplicates", rep.Duplicates,
			"anonymous", rep.Anonymous,
			"cyclic", rep.Cyclic,
			"truncated", rep.Truncated,
		)
	} else if rep.Orphans > 0 || rep.Relisted > 0 {
		slog.Debug("category tree normalized",
			"orphans", rep.Orphans,
			"relisted", rep.Relisted,
		)
	}
	return forest, rep
}

// flatten records every node of the payload once, in document order.
func flatten(nodes []models.CategoryNode, parent models.ID, nested bool, byID map[models.ID]*flatNode, order *[]models.ID, rep *Report) {
	for _, n := range nodes {
		id := n.ID
		p := n.ParentKey()
		if nested {
			p = parent
		}
		switch {
		case id.IsZero():
			rep.Anonymous++
		case byID[id] != nil && byID[id].sameListing(n.Category, p):
			rep.Relisted++
		case byID[id] != nil:
			rep.Duplicates++
		default:
			cat := n.Category
			cat.ParentID = nil
			byID[id] = &flatNode{cat: cat, parent: p}
			*order = append(*order, id)
		}
		if len(n.Children) > 0 {
			// Children of an id-less node fall back to their own parentId.
			flatten(n.Children, id, !id.IsZero(), byID, order, rep)
		}
	}
}

// markSubtree marks id and everything below it visited and returns how
// many nodes that was.
func markSubtree(id models.ID, children map[models.ID][]models.ID, visited map[models.ID]bool) int {
	count := 0
	stack := []models.ID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		count++
		stack = append(stack, children[cur]...)
	}
	return count
}
