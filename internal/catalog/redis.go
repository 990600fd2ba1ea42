package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps each record kind in a hash of id -> JSON document, next
// to a slug -> id hash that enforces slug uniqueness with HSETNX.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on a client owned by the caller
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "catalog"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) recordsKey(kind string) string { return s.prefix + ":" + kind }
func (s *RedisStore) slugsKey(kind string) string   { return s.prefix + ":" + kind + ":slugs" }

// GetBrands returns all brands ordered by creation time
func (s *RedisStore) GetBrands(ctx context.Context) ([]Brand, error) {
	var brands []Brand
	if err := loadAll(ctx, s.client, s.recordsKey("brands"), &brands); err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	sort.SliceStable(brands, func(i, j int) bool { return brands[i].CreatedAt.Before(brands[j].CreatedAt) })
	return brands, nil
}

// CreateBrand stores a new brand
func (s *RedisStore) CreateBrand(ctx context.Context, brand Brand) (*Brand, error) {
	if err := requireNameAndSlug(brand.Name, brand.Slug); err != nil {
		return nil, err
	}
	stamp(&brand.ID, &brand.CreatedAt)
	if err := s.insert(ctx, "brands", brand.ID, brand.Slug, brand); err != nil {
		return nil, fmt.Errorf("brand %q: %w", brand.Slug, err)
	}
	return &brand, nil
}

// DeleteBrand removes a brand and frees its slug
func (s *RedisStore) DeleteBrand(ctx context.Context, id string) error {
	raw, err := s.client.HGet(ctx, s.recordsKey("brands"), id).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("brand %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading brand %q: %w", id, err)
	}

	var brand Brand
	if err := json.Unmarshal([]byte(raw), &brand); err != nil {
		return fmt.Errorf("decoding brand %q: %w", id, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.recordsKey("brands"), id)
		pipe.HDel(ctx, s.slugsKey("brands"), brand.Slug)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting brand %q: %w", id, err)
	}
	return nil
}

// GetProducts returns all products ordered by creation time
func (s *RedisStore) GetProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := loadAll(ctx, s.client, s.recordsKey("products"), &products); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.Before(products[j].CreatedAt) })
	return products, nil
}

// CreateProduct stores a new product
func (s *RedisStore) CreateProduct(ctx context.Context, product Product) (*Product, error) {
	if err := requireNameAndSlug(product.Name, product.Slug); err != nil {
		return nil, err
	}
	stamp(&product.ID, &product.CreatedAt)
	if err := s.insert(ctx, "products", product.ID, product.Slug, product); err != nil {
		return nil, fmt.Errorf("product %q: %w", product.Slug, err)
	}
	return &product, nil
}

// GetCategories returns all categories ordered by creation time
func (s *RedisStore) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := loadAll(ctx, s.client, s.recordsKey("categories"), &categories); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].CreatedAt.Before(categories[j].CreatedAt) })
	return categories, nil
}

// GetCategoryBySlug returns the category with the given slug
func (s *RedisStore) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	id, err := s.client.HGet(ctx, s.slugsKey("categories"), slug).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving category %q: %w", slug, err)
	}

	raw, err := s.client.HGet(ctx, s.recordsKey("categories"), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading category %q: %w", slug, err)
	}

	var category Category
	if err := json.Unmarshal([]byte(raw), &category); err != nil {
		return nil, fmt.Errorf("decoding category %q: %w", slug, err)
	}
	return &category, nil
}

// CreateCategory stores a new category
func (s *RedisStore) CreateCategory(ctx context.Context, category Category) (*Category, error) {
	if err := requireNameAndSlug(category.Name, category.Slug); err != nil {
		return nil, err
	}
	stamp(&category.ID, &category.CreatedAt)
	if err := s.insert(ctx, "categories", category.ID, category.Slug, category); err != nil {
		return nil, fmt.Errorf("category %q: %w", category.Slug, err)
	}
	return &category, nil
}

// insert claims the slug first and releases it again if the record write fails
func (s *RedisStore) insert(ctx context.Context, kind, id, slug string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	claimed, err := s.client.HSetNX(ctx, s.slugsKey(kind), slug, id).Result()
	if err != nil {
		return fmt.Errorf("claiming slug: %w", err)
	}
	if !claimed {
		return ErrSlugConflict
	}

	if err := s.client.HSet(ctx, s.recordsKey(kind), id, data).Err(); err != nil {
		s.client.HDel(ctx, s.slugsKey(kind), slug)
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// loadAll decodes every value of a records hash into out, a pointer to a slice
func loadAll(ctx context.Context, client *redis.Client, key string, out interface{}) error {
	values, err := client.HVals(ctx, key).Result()
	if err != nil {
		return err
	}

	buf := make([]json.RawMessage, len(values))
	for i, v := range values {
		buf[i] = json.RawMessage(v)
	}
	data, err := json.Marshal(buf)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
