package inventory

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/filter"
	"github.com/vango-dev/adminkit/pkg/lazy"
	"github.com/vango-dev/adminkit/pkg/module"
	"github.com/vango-dev/adminkit/pkg/page"
	"github.com/vango-dev/adminkit/pkg/view"
)

func setup(t *testing.T) (*module.Registry, *drawer.Registry, *Catalog) {
	t.Helper()
	mods := module.NewRegistry()
	drawers := drawer.NewRegistry()
	catalog := SampleCatalog()
	if err := Register(mods, drawers, catalog); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return mods, drawers, catalog
}

func TestRegister(t *testing.T) {
	mods, drawers, _ := setup(t)

	want := []string{"/products", "/products/:id", "/categories"}
	if diff := cmp.Diff(want, mods.List()); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"inventory.product", "inventory.category"}, drawers.Types()); diff != "" {
		t.Errorf("drawer types mismatch (-want +got):\n%s", diff)
	}

	items := mods.SidebarItems()
	if len(items) != 1 || items[0].Key != "inventory" {
		t.Fatalf("sidebar = %+v, want one inventory group", items)
	}
	var children []string
	for _, c := range items[0].Children {
		children = append(children, c.Label)
	}
	if diff := cmp.Diff([]string{"Products", "Categories"}, children); diff != "" {
		t.Errorf("sidebar children mismatch (-want +got):\n%s", diff)
	}

	rec, _ := mods.Record("categories")
	if rec.LoadState() != lazy.Idle {
		t.Errorf("categories load state = %v, want idle until first use", rec.LoadState())
	}
}

func TestProducts(t *testing.T) {
	catalog := SampleCatalog()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters", "", []string{"p1", "p2", "p3", "p4"}},
		{"title contains", "filter=title:ILike:COAT", []string{"p2"}},
		{"status in", "filter=status:In:draft|archived", []string{"p3", "p4"}},
		{"price range and stock", "filter=price:Gte:30&filter=stock:Gt:5", []string{"p1", "p4"}},
		{"tags any element", "filter=tags:In:summer", []string{"p1", "p3"}},
		{"boolean", "filter=discountable:Is:false", []string{"p2"}},
		{"date open range", "filter=created:Between:2024-01-01..", []string{"p1", "p3"}},
		{"category", "filter=category:In:c3", []string{"p3", "p4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			values, err := filter.ParseQuery(ProductFilters, q)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			pred, err := filter.Compile(ProductFilters, values, filter.And)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			products, err := catalog.Products(pred)
			if err != nil {
				t.Fatal(err)
			}
			got := []string{}
			for _, p := range products {
				got = append(got, p.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("products mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProductListPage(t *testing.T) {
	mods, _, _ := setup(t)
	r := page.NewResolver(mods)

	q := url.Values{"filter": {"status:In:published", "price:Lt:100"}}
	p, err := r.Resolve(context.Background(), "/products", q)
	if err != nil {
		t.Fatal(err)
	}
	html := view.String(p.Body)
	for _, want := range []string{"Linen Shirt", "Status in (Published)", "Price &lt; 10", "$49.00", `data-drawer-open="inventory.product"`} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "Wool Coat") {
		t.Error("filtered-out product rendered")
	}
}

func TestProductListRejectsBadFilter(t *testing.T) {
	mods, _, _ := setup(t)
	r := page.NewResolver(mods)

	p, err := r.Resolve(context.Background(), "/products", url.Values{"filter": {"status:Gt:3"}})
	if err != nil {
		t.Fatal(err)
	}
	if html := view.String(p.Body); !strings.Contains(html, "Invalid filter") {
		t.Errorf("expected a filter error, got:\n%s", html)
	}
}

func TestProductDetailAndCategories(t *testing.T) {
	mods, _, _ := setup(t)
	r := page.NewResolver(mods)

	p, err := r.Resolve(context.Background(), "/products/p2", nil)
	if err != nil {
		t.Fatal(err)
	}
	if html := view.String(p.Body); !strings.Contains(html, "Wool Coat") || !strings.Contains(html, "Outerwear") {
		t.Errorf("detail page:\n%s", html)
	}

	p, err = r.Resolve(context.Background(), "/categories", nil)
	if err != nil {
		t.Fatal(err)
	}
	if html := view.String(p.Body); !strings.Contains(html, "Accessories") || !strings.Contains(html, "(2)") {
		t.Errorf("categories page:\n%s", html)
	}
}

func TestDrawers(t *testing.T) {
	_, drawers, catalog := setup(t)
	renderer := drawer.NewRenderer(drawers)
	store := drawer.NewStore()

	if _, err := ProductDrawer.Open(store, ProductPayload{ProductID: "p1", Tab: "pricing"}); err != nil {
		t.Fatal(err)
	}
	if _, err := CategoryDrawer.Open(store, CategoryPayload{CategoryID: "c1"}); err != nil {
		t.Fatal(err)
	}

	html := view.String(renderer.Render(context.Background(), store, drawer.NeverConfirm))
	for _, want := range []string{"Linen Shirt", `data-tab="pricing"`, "shirts", "width: 560px", "width: 420px"} {
		if !strings.Contains(html, want) {
			t.Errorf("drawers missing %q:\n%s", want, html)
		}
	}

	// The category drawer discards dirty state without asking.
	top, _ := store.Top()
	store.SetDirty(top.UUID, true)
	if res := renderer.RequestClose(context.Background(), store, top.UUID, drawer.NeverConfirm); res != drawer.Closed {
		t.Errorf("close category = %v, want closed", res)
	}

	// Edits made elsewhere show up on the next render.
	pr, _ := catalog.Product("p1")
	pr.Title = "Linen Shirt v2"
	catalog.UpdateProduct(pr)
	if html := view.String(renderer.Render(context.Background(), store, drawer.NeverConfirm)); !strings.Contains(html, "Linen Shirt v2") {
		t.Error("drawer did not render the updated product")
	}
}
