package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/filter"
	"github.com/vango-dev/adminkit/pkg/module"
	"github.com/vango-dev/adminkit/pkg/view"
)

// ProductPayload opens the product editor.
type ProductPayload struct {
	ProductID string `json:"productId"`
	Tab       string `json:"tab,omitempty"`
}

// CategoryPayload opens the category viewer.
type CategoryPayload struct {
	CategoryID string `json:"categoryId"`
}

// Drawer kinds of the inventory domain.
var (
	ProductDrawer  = drawer.NewKind[ProductPayload]("inventory.product")
	CategoryDrawer = drawer.NewKind[CategoryPayload]("inventory.category")
)

// Register adds the inventory domain, its modules and its drawers.
func Register(mods *module.Registry, drawers *drawer.Registry, catalog *Catalog) error {
	if err := mods.RegisterDomain(module.Domain{
		Key:         "inventory",
		Label:       "Inventory",
		Icon:        "box",
		Description: "Products and categories",
		Order:       1,
	}); err != nil {
		return err
	}

	if err := mods.Register(module.Config{
		Key:         "products",
		Domain:      "inventory",
		Title:       "Products",
		Description: "Every product in the catalog. Filter with `?filter=key:Operator:value`.",
		Path:        "/products",
		Component:   catalog.productList,
		Sidebar:     &module.Sidebar{Label: "Products", Icon: "tag", Order: 1},
		Items: []module.Route{{
			Key:       "products.detail",
			Path:      "/products/:id",
			Title:     "Product",
			Component: catalog.productDetail,
		}},
	}); err != nil {
		return err
	}

	// Categories load lazily to show the deferred module path.
	if err := mods.Register(module.Config{
		Key:     "categories",
		Domain:  "inventory",
		Title:   "Categories",
		Path:    "/categories",
		Load:    func(ctx context.Context) (module.Component, error) { return catalog.categoryList, nil },
		Sidebar: &module.Sidebar{Label: "Categories", Icon: "folder", Order: 2},
	}); err != nil {
		return err
	}

	ProductDrawer.Register(drawers, drawer.Definition{
		Title:       "Edit product",
		Description: "Product details and **pricing**.",
		Width:       560,
		Component:   catalog.productDrawer,
	})
	CategoryDrawer.Register(drawers, drawer.Definition{
		Title:      "Category",
		Width:      420,
		DirtyClose: drawer.DirtyCloseDiscard,
		Component:  catalog.categoryDrawer,
	})
	return nil
}

func (c *Catalog) productList(ctx context.Context, p module.Props) *view.Node {
	values, err := filter.ParseQuery(ProductFilters, p.Query)
	if err != nil {
		return filterError(err)
	}
	pred, err := filter.Compile(ProductFilters, values, filter.And)
	if err != nil {
		return filterError(err)
	}
	products, err := c.Products(pred)
	if err != nil {
		return filterError(err)
	}

	return view.Div(view.Class("inventory-products"),
		activeFilters(values),
		view.If(len(products) == 0, view.P(view.Class("inventory-empty"), "No products match.")),
		view.Ul(view.Class("inventory-list"), view.Range(products, func(_ int, pr Product) *view.Node {
			return view.Li(
				view.Data("product-id", pr.ID),
				view.Link(view.Href("/products/"+pr.ID), pr.Title),
				view.Span(view.Class("inventory-status"), pr.Status),
				view.Span(view.Class("inventory-price"), formatPrice(pr.Price)),
				openButton(ProductDrawer.Type(), ProductPayload{ProductID: pr.ID}, "Edit"),
			)
		})),
	)
}

func activeFilters(values []filter.Value) *view.Node {
	if len(values) == 0 {
		return nil
	}
	return view.Ul(view.Class("inventory-filters"), view.Range(values, func(_ int, v filter.Value) *view.Node {
		s, _ := filter.Find(v.KeyPath, ProductFilters)
		return view.Li(view.Class("inventory-filter-chip"), filter.Describe(v, s))
	}))
}

func filterError(err error) *view.Node {
	return view.P(view.Class("inventory-filter-error"), view.Role("alert"), "Invalid filter: "+err.Error())
}

func (c *Catalog) productDetail(ctx context.Context, p module.Props) *view.Node {
	pr, ok := c.Product(p.Params.Get("id"))
	if !ok {
		return view.P(view.Class("inventory-empty"), "Product not found.")
	}
	cat, _ := c.Category(pr.CategoryID)
	return view.Div(view.Class("inventory-product"),
		view.H2(pr.Title),
		productFields(pr, cat),
		openButton(ProductDrawer.Type(), ProductPayload{ProductID: pr.ID}, "Edit"),
	)
}

func (c *Catalog) categoryList(ctx context.Context, p module.Props) *view.Node {
	counts := c.CountByCategory()
	return view.Ul(view.Class("inventory-categories"), view.Range(c.Categories(), func(_ int, cat Category) *view.Node {
		return view.Li(
			view.Data("category-id", cat.ID),
			view.Link(view.Href("/products?filter=category:In:"+cat.ID), cat.Name),
			view.Textf(" (%d)", counts[cat.ID]),
			openButton(CategoryDrawer.Type(), CategoryPayload{CategoryID: cat.ID}, "View"),
		)
	}))
}

func (c *Catalog) productDrawer(ctx context.Context) *view.Node {
	dc := drawer.MustFromContext(ctx)
	payload, err := ProductDrawer.Payload(dc)
	if err != nil {
		return view.P(view.Role("alert"), err.Error())
	}
	pr, ok := c.Product(payload.ProductID)
	if !ok {
		return view.P("Product not found.")
	}
	cat, _ := c.Category(pr.CategoryID)

	tab := payload.Tab
	if tab == "" {
		tab = "general"
	}
	return view.Div(view.Class("inventory-product-editor"), view.Data("tab", tab),
		view.If(dc.IsDirty(), view.P(view.Class("inventory-unsaved"), "Unsaved changes")),
		productFields(pr, cat),
		view.If(cat.ID != "", openButton(CategoryDrawer.Type(), CategoryPayload{CategoryID: cat.ID}, "Open category")),
	)
}

func (c *Catalog) categoryDrawer(ctx context.Context) *view.Node {
	payload, err := CategoryDrawer.Payload(drawer.MustFromContext(ctx))
	if err != nil {
		return view.P(view.Role("alert"), err.Error())
	}
	cat, ok := c.Category(payload.CategoryID)
	if !ok {
		return view.P("Category not found.")
	}
	return view.Dl(
		view.Dt("Name"), view.Dd(cat.Name),
		view.Dt("Handle"), view.Dd(cat.Handle),
		view.Dt("Products"), view.Dd(fmt.Sprint(c.CountByCategory()[cat.ID])),
	)
}

func productFields(pr Product, cat Category) *view.Node {
	category := cat.Name
	if category == "" {
		category = "None"
	}
	tags := strings.Join(pr.Tags, ", ")
	if tags == "" {
		tags = "None"
	}
	return view.Dl(view.Class("inventory-fields"),
		view.Dt("Status"), view.Dd(pr.Status),
		view.Dt("Price"), view.Dd(formatPrice(pr.Price)),
		view.Dt("Stock"), view.Dd(fmt.Sprint(pr.Stock)),
		view.Dt("Category"), view.Dd(category),
		view.Dt("Tags"), view.Dd(tags),
		view.Dt("Created"), view.Dd(pr.CreatedAt),
	)
}

// openButton renders a drawer open button. admin.js posts the type and the
// JSON payload from its data attributes to /_admin/drawers.
func openButton(typ string, payload any, label string) *view.Node {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return view.Button(
		view.Class("inventory-open"),
		view.Data("drawer-open", typ),
		view.Data("drawer-payload", string(data)),
		label,
	)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
