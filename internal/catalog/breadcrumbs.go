package catalog

import "toolstore/internal/slug"

// Crumb is one breadcrumb entry.
type Crumb struct {
	Label string `json:"label"`
	Link  string `json:"link"`
}

// Breadcrumbs derives a trail from the route segments themselves. Labels
// are humanized slugs and are not checked against the tree; callers may
// replace the last label with the resolved category's name.
func Breadcrumbs(slugs []string) []Crumb {
	crumbs := make([]Crumb, 0, len(slugs))
	for i, s := range slugs {
		crumbs = append(crumbs, Crumb{
			Label: slug.Humanize(s),
			Link:  CategoryLink(CategoryRoute, slugs[:i+1]),
		})
	}
	return crumbs
}
