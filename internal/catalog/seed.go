package catalog

import (
	"context"
	"errors"
	"fmt"
)

// DefaultCategories is the category set the importer classifies into
var DefaultCategories = []Category{
	{Name: "Skin Care", Slug: "skin-care"},
	{Name: "Hair Care", Slug: "hair-care"},
	{Name: "Baby Care", Slug: "baby-care"},
	{Name: "Vitamins & Supplements", Slug: "vitamins-supplements"},
	{Name: "Personal Care", Slug: "personal-care"},
	{Name: "Medical Devices", Slug: "medical-devices"},
	{Name: "Medicines", Slug: "medicines"},
}

// EnsureCategories creates every category whose slug is not in the store yet
// and returns how many were created.
func EnsureCategories(ctx context.Context, store Store, categories []Category) (int, error) {
	created := 0
	for _, category := range categories {
		_, err := store.GetCategoryBySlug(ctx, category.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return created, fmt.Errorf("looking up category %q: %w", category.Slug, err)
		}
		if _, err := store.CreateCategory(ctx, category); err != nil && !errors.Is(err, ErrSlugConflict) {
			return created, fmt.Errorf("creating category %q: %w", category.Slug, err)
		}
		created++
	}
	return created, nil
}
