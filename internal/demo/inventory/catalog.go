// Package inventory is a demo admin domain: products and categories held in
// memory, listed with filters and edited in drawers.
package inventory

import (
	"slices"
	"sync"

	"github.com/vango-dev/adminkit/pkg/filter"
)

// Product is a catalog entry. JSON names are the filter payload keys.
type Product struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Price        float64  `json:"price"`
	Stock        int      `json:"stock"`
	CategoryID   string   `json:"categoryId"`
	Tags         []string `json:"tags"`
	Discountable bool     `json:"discountable"`
	CreatedAt    string   `json:"createdAt"`
}

// Category groups products.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

// Catalog is an in-memory product store safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	products   []Product
	categories []Category
}

// NewCatalog returns a catalog holding the given data.
func NewCatalog(products []Product, categories []Category) *Catalog {
	return &Catalog{
		products:   slices.Clone(products),
		categories: slices.Clone(categories),
	}
}

// SampleCatalog returns a small seeded catalog.
func SampleCatalog() *Catalog {
	return NewCatalog(
		[]Product{
			{ID: "p1", Title: "Linen Shirt", Status: "published", Price: 49, Stock: 12, CategoryID: "c1", Tags: []string{"summer", "linen"}, Discountable: true, CreatedAt: "2024-03-02"},
			{ID: "p2", Title: "Wool Coat", Status: "published", Price: 189, Stock: 3, CategoryID: "c2", Tags: []string{"winter"}, Discountable: false, CreatedAt: "2023-11-20"},
			{ID: "p3", Title: "Canvas Tote", Status: "draft", Price: 25, Stock: 0, CategoryID: "c3", Tags: []string{"summer"}, Discountable: true, CreatedAt: "2024-05-14"},
			{ID: "p4", Title: "Leather Belt", Status: "archived", Price: 35, Stock: 40, CategoryID: "c3", Discountable: true, CreatedAt: "2022-08-01"},
		},
		[]Category{
			{ID: "c1", Name: "Shirts", Handle: "shirts"},
			{ID: "c2", Name: "Outerwear", Handle: "outerwear"},
			{ID: "c3", Name: "Accessories", Handle: "accessories"},
		},
	)
}

// Products returns the products matching pred, in catalog order.
func (c *Catalog) Products(pred filter.Predicate) ([]Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Product
	for _, p := range c.products {
		ok, err := pred.MatchValue(p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Product returns the product with id.
func (c *Catalog) Product(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.products, func(p Product) bool { return p.ID == id })
	if i < 0 {
		return Product{}, false
	}
	return c.products[i], true
}

// UpdateProduct replaces the stored product with the same id.
func (c *Catalog) UpdateProduct(p Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.products, func(q Product) bool { return q.ID == p.ID })
	if i < 0 {
		return false
	}
	c.products[i] = p
	return true
}

// Categories returns every category.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.categories)
}

// Category returns the category with id.
func (c *Catalog) Category(id string) (Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.categories, func(cat Category) bool { return cat.ID == id })
	if i < 0 {
		return Category{}, false
	}
	return c.categories[i], true
}

// CountByCategory returns how many products each category holds.
func (c *Catalog) CountByCategory() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	counts := make(map[string]int, len(c.categories))
	for _, p := range c.products {
		counts[p.CategoryID]++
	}
	return counts
}

// ProductFilters are the filters offered on the product list.
var ProductFilters = []filter.Schema{
	{Key: "title", Label: "Title", Type: filter.TypeString, Operators: filter.StringOperators, PayloadKey: "title"},
	{
		Key: "status", Label: "Status", Type: filter.TypeEnum, Operators: filter.EnumOperators, PayloadKey: "status",
		Options: []filter.Option{
			{Label: "Draft", Value: "draft"},
			{Label: "Published", Value: "published"},
			{Label: "Archived", Value: "archived"},
		},
	},
	{Key: "price", Label: "Price", Type: filter.TypePrice, Operators: filter.PriceOperators, PayloadKey: "price"},
	{Key: "stock", Label: "Stock", Type: filter.TypeInteger, Operators: filter.NumberOperators, PayloadKey: "stock"},
	{Key: "category", Label: "Category", Type: filter.TypeRelation, Operators: filter.RelationOperators, PayloadKey: "categoryId", Entity: "category"},
	{Key: "tags", Label: "Tags", Type: filter.TypeEnum, Operators: filter.EnumOperators, PayloadKey: "tags"},
	{Key: "discountable", Label: "Discountable", Type: filter.TypeBoolean, Operators: filter.BooleanOperators, PayloadKey: "discountable", Options: filter.BooleanOptions},
	{Key: "created", Label: "Created", Type: filter.TypeDate, Operators: filter.DateOperators, PayloadKey: "createdAt"},
}
