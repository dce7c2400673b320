package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"toolstore/internal/api"
	"toolstore/internal/models"
	"toolstore/internal/slug"
)

// ---------- Fakes ----------

type fakeTreeSource struct {
	nodes []models.CategoryNode
	err   error
	calls int
}

func (f *fakeTreeSource) Tree(context.Context) ([]models.CategoryNode, error) {
	f.calls++
	return f.nodes, f.err
}

type fakeLookup struct {
	bySlug map[string]models.Category
	asked  []string
}

func (f *fakeLookup) BySlug(_ context.Context, slug string) (*models.Category, error) {
	f.asked = append(f.asked, slug)
	c, ok := f.bySlug[slug]
	if !ok {
		return nil, api.ErrNotFound
	}
	return &c, nil
}

type memoryTreeCache struct {
	tree        []models.CategoryNode
	ok          bool
	invalidated int
}

func (m *memoryTreeCache) Get(context.Context) ([]models.CategoryNode, bool) { return m.tree, m.ok }
func (m *memoryTreeCache) Set(_ context.Context, t []models.CategoryNode)    { m.tree, m.ok = t, true }
func (m *memoryTreeCache) Invalidate(context.Context) {
	m.tree, m.ok = nil, false
	m.invalidated++
}

// storefrontTree is Power Tools -> [Metal Working, Wood Working] plus a
// flat Engine category.
func storefrontTree() []models.CategoryNode {
	return []models.CategoryNode{
		with(cat("pt", "Power Tools", "power-tools", ""),
			cat("mw", "Metal Working", "metal-working", "pt"),
			cat("ww", "Wood Working", "wood-working", "pt"),
		),
		cat("en", "Engine", "engine", ""),
	}
}

// =====================================================================
// Resolver
// =====================================================================

func TestFetchTree_NormalizesPayload(t *testing.T) {
	src := &fakeTreeSource{nodes: []models.CategoryNode{
		cat("mw", "Metal Working", "metal-working", "pt"),
		cat("pt", "Power Tools", "power-tools", ""),
	}}
	r := NewResolver(src, nil, nil)

	tree, err := r.FetchTree(context.Background())
	if err != nil {
		t.Fatalf("FetchTree: %v", err)
	}
	if got := shape(tree); got != "pt(mw)" {
		t.Errorf("shape = %q", got)
	}
}

func TestFetchTree_Failure(t *testing.T) {
	src := &fakeTreeSource{err: &api.FetchError{Method: "GET", Path: "/category/tree", Status: 500}}
	r := NewResolver(src, nil, nil)

	tree, err := r.FetchTree(context.Background())
	if !errors.Is(err, api.ErrFetchFailed) {
		t.Fatalf("error = %v, want ErrFetchFailed", err)
	}
	if tree != nil {
		t.Errorf("tree = %v, want nil", tree)
	}
}

func TestFetchTree_Cache(t *testing.T) {
	src := &fakeTreeSource{nodes: storefrontTree()}
	cache := &memoryTreeCache{}
	r := NewResolver(src, nil, cache)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := r.FetchTree(ctx); err != nil {
			t.Fatalf("FetchTree: %v", err)
		}
	}
	if src.calls != 1 {
		t.Errorf("backend calls = %d, want 1", src.calls)
	}

	r.Invalidate(ctx)
	if _, err := r.FetchTree(ctx); err != nil {
		t.Fatalf("FetchTree: %v", err)
	}
	if src.calls != 2 || cache.invalidated != 1 {
		t.Errorf("calls = %d invalidated = %d, want 2 and 1", src.calls, cache.invalidated)
	}
}

func TestInvalidate_NoCache(t *testing.T) {
	NewResolver(&fakeTreeSource{}, nil, nil).Invalidate(context.Background())
}

func TestResolveBySlugPath_PrefixIsCosmetic(t *testing.T) {
	lookup := &fakeLookup{bySlug: map[string]models.Category{
		"power-tools": {ID: "pt", Name: "Power Tools", Slug: "power-tools"},
	}}
	r := NewResolver(nil, lookup, nil)
	ctx := context.Background()

	paths := [][]string{
		{"power-tools"},
		{"bogus", "power-tools"},
		{"a", "b", "c", " power-tools "},
	}
	for _, p := range paths {
		got, err := r.ResolveBySlugPath(ctx, p)
		if err != nil {
			t.Fatalf("ResolveBySlugPath(%v): %v", p, err)
		}
		if got.ID != "pt" {
			t.Errorf("ResolveBySlugPath(%v) = %q, want pt", p, got.ID)
		}
	}
	for _, asked := range lookup.asked {
		if asked != "power-tools" {
			t.Errorf("looked up %q, want only the last segment", asked)
		}
	}
}

func TestResolveBySlugPath_Invalid(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(nil, lookup, nil)

	for _, p := range [][]string{nil, {}, {"power-tools", ""}, {"  "}} {
		if _, err := r.ResolveBySlugPath(context.Background(), p); !errors.Is(err, api.ErrInvalidArgument) {
			t.Errorf("ResolveBySlugPath(%q) error = %v, want ErrInvalidArgument", p, err)
		}
	}
	if len(lookup.asked) != 0 {
		t.Errorf("lookups = %v, want none", lookup.asked)
	}
}

func TestResolveBySlugPath_NotFound(t *testing.T) {
	r := NewResolver(nil, &fakeLookup{}, nil)
	if _, err := r.ResolveBySlugPath(context.Background(), []string{"nope"}); !errors.Is(err, api.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =====================================================================
// Parent options
// =====================================================================

func TestBuildParentOptions_Storefront(t *testing.T) {
	tree, _ := Normalize(storefrontTree())
	got := BuildParentOptions(tree)

	want := []TreeSelectNode{
		{Value: "pt", Label: "Power Tools", Children: []TreeSelectNode{
			{Value: "mw", Label: "Metal Working"},
			{Value: "ww", Label: "Wood Working"},
		}},
		{Value: "en", Label: "Engine"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("options = %+v\nwant %+v", got, want)
	}

	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	wantJSON := `[{"value":"pt","label":"Power Tools","children":[{"value":"mw","label":"Metal Working"},{"value":"ww","label":"Wood Working"}]},{"value":"en","label":"Engine"}]`
	if string(b) != wantJSON {
		t.Errorf("json = %s\nwant %s", b, wantJSON)
	}
}

func TestBuildParentOptions_SkipsIncomplete(t *testing.T) {
	tree := Forest{
		with(cat("a", "", "a", ""), cat("b", "B", "b", "a")),
		cat("c", "C", "c", ""),
	}
	got := BuildParentOptions(tree)
	if len(got) != 1 || got[0].Value != "c" {
		t.Errorf("options = %+v, want only c", got)
	}
}

func TestBuildParentOptions_Empty(t *testing.T) {
	got := BuildParentOptions(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("options = %#v, want empty non-nil", got)
	}
	b, _ := json.Marshal(got)
	if string(b) != "[]" {
		t.Errorf("json = %s, want []", b)
	}
}

func TestBuildParentOptionsExcluding(t *testing.T) {
	tree, _ := Normalize(storefrontTree())

	got := BuildParentOptionsExcluding(tree, "pt")
	if len(got) != 1 || got[0].Value != "en" {
		t.Errorf("excluding pt = %+v, want only en", got)
	}

	got = BuildParentOptionsExcluding(tree, "mw")
	if len(got[0].Children) != 1 || got[0].Children[0].Value != "ww" {
		t.Errorf("excluding mw = %+v", got)
	}
}

// =====================================================================
// Navigation menu and breadcrumbs
// =====================================================================

func TestBuildNavigationMenu_OneItemPerNode(t *testing.T) {
	raw := []models.CategoryNode{
		cat("pt", "Power Tools", "power-tools", ""),
		cat("mw", "Metal Working", "metal-working", "pt"),
		cat("gr", "Grinders", "grinders", "mw"),
		cat("ww", "Wood Working", "wood-working", "pt"),
		cat("en", "Engine", "engine", ""),
	}
	tree, _ := Normalize(raw)
	menu := BuildNavigationMenu(tree, "")

	if n := CountItems(menu); n != len(raw) {
		t.Errorf("menu items = %d, want %d", n, len(raw))
	}

	links := map[string]string{}
	var collect func(items []MenuItem)
	collect = func(items []MenuItem) {
		for _, it := range items {
			if len(it.Children) > 0 {
				if it.Link != "" {
					t.Errorf("submenu %q has link %q", it.Key, it.Link)
				}
				collect(it.Children)
				continue
			}
			links[it.Key] = it.Link
		}
	}
	collect(menu)

	want := map[string]string{
		"gr": "/product-category/power-tools/metal-working/grinders",
		"ww": "/product-category/power-tools/wood-working",
		"en": "/product-category/engine",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("leaf links = %v, want %v", links, want)
	}
}

func TestBuildNavigationMenu_LeafLinksMatchPath(t *testing.T) {
	tree, _ := Normalize(storefrontTree())
	forest := Forest(tree)
	var check func(items []MenuItem)
	check = func(items []MenuItem) {
		for _, it := range items {
			if len(it.Children) > 0 {
				check(it.Children)
				continue
			}
			want := CategoryRoute + strings.Join(forest.Path(models.ID(it.Key)), "/")
			if it.Link != want {
				t.Errorf("link %q, want %q", it.Link, want)
			}
		}
	}
	check(BuildNavigationMenu(forest, CategoryRoute))
}

func TestBreadcrumbs(t *testing.T) {
	got := Breadcrumbs([]string{"power-tools", "metal-working"})
	want := []Crumb{
		{Label: "Power Tools", Link: "/product-category/power-tools"},
		{Label: "Metal Working", Link: "/product-category/power-tools/metal-working"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Breadcrumbs = %+v, want %+v", got, want)
	}
	if len(Breadcrumbs(nil)) != 0 {
		t.Error("no segments should give no crumbs")
	}
}

func TestBreadcrumbs_EscapesSegments(t *testing.T) {
	got := Breadcrumbs(slug.Split("power-tools/a%2Fb/metal%20working"))
	want := []string{
		"/product-category/power-tools",
		"/product-category/power-tools/a%2Fb",
		"/product-category/power-tools/a%2Fb/metal%20working",
	}
	if len(got) != len(want) {
		t.Fatalf("crumbs = %+v, want %d", got, len(want))
	}
	for i, c := range got {
		if c.Link != want[i] {
			t.Errorf("crumb %d link = %q, want %q", i, c.Link, want[i])
		}
	}
}

func TestBuildNavigationMenu_EscapesSlugs(t *testing.T) {
	tree, _ := Normalize([]models.CategoryNode{
		cat("1", "Power Tools", "power-tools", ""),
		cat("2", "A/B", "a/b", "1"),
	})
	menu := BuildNavigationMenu(tree, "")
	if len(menu) != 1 || len(menu[0].Children) != 1 {
		t.Fatalf("menu = %+v", menu)
	}
	if got := menu[0].Children[0].Link; got != "/product-category/power-tools/a%2Fb" {
		t.Errorf("link = %q", got)
	}
}

// =====================================================================
// Forest helpers
// =====================================================================

func TestForestLookups(t *testing.T) {
	tree, _ := Normalize(storefrontTree())
	f := Forest(tree)

	if f.Count() != 4 {
		t.Errorf("Count = %d, want 4", f.Count())
	}
	if n := f.Find("ww"); n == nil || n.Slug != "wood-working" {
		t.Errorf("Find(ww) = %+v", n)
	}
	if f.Find("zz") != nil {
		t.Error("Find(zz) should be nil")
	}
	if n, err := f.FindBySlug("engine"); err != nil || n.ID != "en" {
		t.Errorf("FindBySlug(engine) = %+v, %v", n, err)
	}
	if _, err := f.FindBySlug("nope"); !errors.Is(err, api.ErrNotFound) {
		t.Errorf("FindBySlug(nope) error = %v", err)
	}
	if f.Path("zz") != nil {
		t.Error("Path of unknown id should be nil")
	}
	if !f.IsDescendant("pt", "mw") || f.IsDescendant("mw", "pt") || f.IsDescendant("en", "mw") {
		t.Error("IsDescendant gave the wrong answer")
	}
}

func TestFindBySlug_Duplicate(t *testing.T) {
	f := Forest{
		with(cat("1", "A", "a", ""), cat("2", "Drills", "drills", "1")),
		with(cat("3", "B", "b", ""), cat("4", "Drills", "drills", "3")),
	}
	if _, err := f.FindBySlug("drills"); !errors.Is(err, api.ErrMalformedTree) {
		t.Errorf("error = %v, want ErrMalformedTree", err)
	}
}

func TestValidateParent(t *testing.T) {
	tree, _ := Normalize(storefrontTree())
	f := Forest(tree)

	tests := []struct {
		name     string
		id       models.ID
		parentID models.ID
		wantErr  bool
	}{
		{name: "root", id: "mw", parentID: "", wantErr: false},
		{name: "new under existing", id: "", parentID: "pt", wantErr: false},
		{name: "move to sibling root", id: "mw", parentID: "en", wantErr: false},
		{name: "missing parent", id: "mw", parentID: "zz", wantErr: true},
		{name: "self", id: "pt", parentID: "pt", wantErr: true},
		{name: "own descendant", id: "pt", parentID: "ww", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.ValidateParent(tt.id, tt.parentID)
			if tt.wantErr && !errors.Is(err, ErrInvalidParent) {
				t.Errorf("error = %v, want ErrInvalidParent", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateParent_DescendantNamesPath(t *testing.T) {
	tree, _ := Normalize(storefrontTree())
	err := Forest(tree).ValidateParent("pt", "ww")
	if err == nil || !strings.Contains(err.Error(), "power-tools/wood-working") {
		t.Errorf("error = %v, want the parent's slug path", err)
	}
}
