package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreBehaviour runs the Store contract against a fresh, empty store
func testStoreBehaviour(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("products", func(t *testing.T) {
		created, err := store.CreateProduct(ctx, Product{
			Name:   "Panadol 500mg",
			Slug:   "panadol-500mg",
			Price:  120,
			Images: []string{"https://cdn.example.com/p.jpg"},
			Stock:  DefaultStock,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		_, err = store.CreateProduct(ctx, Product{Name: "Panadol 500 mg", Slug: "panadol-500mg"})
		assert.ErrorIs(t, err, ErrSlugConflict)

		_, err = store.CreateProduct(ctx, Product{Name: "No slug"})
		assert.ErrorIs(t, err, ErrInvalidRecord)

		products, err := store.GetProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Panadol 500mg", products[0].Name)
		assert.Equal(t, []string{"https://cdn.example.com/p.jpg"}, products[0].Images)
	})

	t.Run("brands", func(t *testing.T) {
		gsk, err := store.CreateBrand(ctx, Brand{Name: "GSK", Slug: "gsk"})
		require.NoError(t, err)
		_, err = store.CreateBrand(ctx, Brand{Name: "Abbott", Slug: "abbott", Logo: "https://cdn.example.com/abbott.png"})
		require.NoError(t, err)

		_, err = store.CreateBrand(ctx, Brand{Name: "gsk", Slug: "gsk"})
		assert.ErrorIs(t, err, ErrSlugConflict)

		require.NoError(t, store.DeleteBrand(ctx, gsk.ID))
		assert.ErrorIs(t, store.DeleteBrand(ctx, gsk.ID), ErrNotFound)

		brands, err := store.GetBrands(ctx)
		require.NoError(t, err)
		require.Len(t, brands, 1)
		assert.Equal(t, "Abbott", brands[0].Name)

		// the deleted brand's slug is free again
		_, err = store.CreateBrand(ctx, Brand{Name: "GSK", Slug: "gsk"})
		assert.NoError(t, err)
	})

	t.Run("categories", func(t *testing.T) {
		created, err := EnsureCategories(ctx, store, DefaultCategories)
		require.NoError(t, err)
		assert.Equal(t, len(DefaultCategories), created)

		created, err = EnsureCategories(ctx, store, DefaultCategories)
		require.NoError(t, err)
		assert.Equal(t, 0, created)

		category, err := store.GetCategoryBySlug(ctx, "skin-care")
		require.NoError(t, err)
		assert.Equal(t, "Skin Care", category.Name)

		_, err = store.GetCategoryBySlug(ctx, "groceries")
		assert.ErrorIs(t, err, ErrNotFound)

		categories, err := store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, len(DefaultCategories))
	})
}

func TestMemoryStore(t *testing.T) {
	testStoreBehaviour(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	images := []string{"a.jpg"}
	_, err := store.CreateProduct(ctx, Product{Name: "Brufen", Slug: "brufen", Images: images})
	require.NoError(t, err)
	images[0] = "mutated.jpg"

	products, err := store.GetProducts(ctx)
	require.NoError(t, err)
	products[0].Name = "changed"
	assert.Equal(t, "a.jpg", products[0].Images[0])

	products, err = store.GetProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Brufen", products[0].Name)
}
