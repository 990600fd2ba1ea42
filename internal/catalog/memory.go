package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a thread-safe in-memory Store. Records are returned in
// insertion order.
type MemoryStore struct {
	mutex sync.RWMutex

	products     []Product
	productSlugs map[string]string

	brands     []Brand
	brandSlugs map[string]string

	categories    []Category
	categorySlugs map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productSlugs:  make(map[string]string),
		brandSlugs:    make(map[string]string),
		categorySlugs: make(map[string]string),
	}
}

// GetBrands returns all brands
func (s *MemoryStore) GetBrands(ctx context.Context) ([]Brand, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]Brand(nil), s.brands...), nil
}

// CreateBrand stores a new brand
func (s *MemoryStore) CreateBrand(ctx context.Context, brand Brand) (*Brand, error) {
	if err := requireNameAndSlug(brand.Name, brand.Slug); err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, taken := s.brandSlugs[brand.Slug]; taken {
		return nil, fmt.Errorf("brand %q: %w", brand.Slug, ErrSlugConflict)
	}
	stamp(&brand.ID, &brand.CreatedAt)

	s.brands = append(s.brands, brand)
	s.brandSlugs[brand.Slug] = brand.ID
	return &brand, nil
}

// DeleteBrand removes a brand by ID
func (s *MemoryStore) DeleteBrand(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, brand := range s.brands {
		if brand.ID == id {
			s.brands = append(s.brands[:i], s.brands[i+1:]...)
			delete(s.brandSlugs, brand.Slug)
			return nil
		}
	}
	return fmt.Errorf("brand %q: %w", id, ErrNotFound)
}

// GetProducts returns all products
func (s *MemoryStore) GetProducts(ctx context.Context) ([]Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]Product(nil), s.products...), nil
}

// CreateProduct stores a new product
func (s *MemoryStore) CreateProduct(ctx context.Context, product Product) (*Product, error) {
	if err := requireNameAndSlug(product.Name, product.Slug); err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, taken := s.productSlugs[product.Slug]; taken {
		return nil, fmt.Errorf("product %q: %w", product.Slug, ErrSlugConflict)
	}
	stamp(&product.ID, &product.CreatedAt)
	product.Images = append([]string(nil), product.Images...)

	s.products = append(s.products, product)
	s.productSlugs[product.Slug] = product.ID
	return &product, nil
}

// GetCategories returns all categories
func (s *MemoryStore) GetCategories(ctx context.Context) ([]Category, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]Category(nil), s.categories...), nil
}

// GetCategoryBySlug returns the category with the given slug
func (s *MemoryStore) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	id, ok := s.categorySlugs[slug]
	if !ok {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}
	for _, category := range s.categories {
		if category.ID == id {
			c := category
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
}

// CreateCategory stores a new category
func (s *MemoryStore) CreateCategory(ctx context.Context, category Category) (*Category, error) {
	if err := requireNameAndSlug(category.Name, category.Slug); err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, taken := s.categorySlugs[category.Slug]; taken {
		return nil, fmt.Errorf("category %q: %w", category.Slug, ErrSlugConflict)
	}
	stamp(&category.ID, &category.CreatedAt)

	s.categories = append(s.categories, category)
	s.categorySlugs[category.Slug] = category.ID
	return &category, nil
}

func requireNameAndSlug(name, slug string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidRecord)
	}
	if slug == "" {
		return fmt.Errorf("slug is required: %w", ErrInvalidRecord)
	}
	return nil
}

func stamp(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = newID()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}
