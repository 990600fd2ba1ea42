// Package catalog holds the canonical product, brand and category records
// and the Store interface the importer persists them through.
package catalog

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("catalog: not found")

	// ErrSlugConflict is returned when a record's slug is already taken
	ErrSlugConflict = errors.New("catalog: slug already exists")

	// ErrInvalidRecord is returned when a record misses a required field
	ErrInvalidRecord = errors.New("catalog: invalid record")
)

// DefaultStock is the stock level given to imported products
const DefaultStock = 20

// Product is a catalog product
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	CategoryID  string    `json:"categoryId,omitempty"`
	BrandID     string    `json:"brandId,omitempty"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"isActive"`
	IsFeatured  bool      `json:"isFeatured"`
	SKU         string    `json:"sku,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Brand is a catalog brand
type Brand struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Logo        string    `json:"logo,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Category is a product category
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the persistence gateway for the catalog. Create methods assign
// ID and CreatedAt when they are empty and reject duplicate slugs with
// ErrSlugConflict.
type Store interface {
	GetBrands(ctx context.Context) ([]Brand, error)
	CreateBrand(ctx context.Context, brand Brand) (*Brand, error)
	DeleteBrand(ctx context.Context, id string) error

	GetProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, product Product) (*Product, error)

	GetCategories(ctx context.Context) ([]Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, category Category) (*Category, error)
}
