package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Kariqs/netshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidebarCategoryCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	notebooks := seedCategory(t, db, "Notebooks", "notebooks")
	phones := seedCategory(t, db, "Smartphones", "smartphones")
	for i := 0; i < 3; i++ {
		seedSmartphone(t, db, phones.ID, fmt.Sprintf("phone-%d", i), "499.99")
	}
	// a notebook filed under another category must not be counted for it
	seedNotebook(t, db, phones.ID, "misfiled", "999.00")

	counts, err := svc.SidebarCategoryCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byName := map[string]CategoryCount{}
	for _, c := range counts {
		byName[c.Name] = c
	}
	assert.Equal(t, int64(0), byName["Notebooks"].Count)
	assert.Equal(t, notebooks.URL(), byName["Notebooks"].URL)
	assert.Equal(t, int64(3), byName["Smartphones"].Count)
	assert.Equal(t, "/category/smartphones", byName["Smartphones"].URL)
}

func TestSidebarCategoryCounts_UnmappedCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)

	seedCategory(t, db, "Smartphones", "smartphones")
	seedCategory(t, db, "Tablets", "tablets")

	_, err := svc.SidebarCategoryCounts(context.Background())
	assert.ErrorIs(t, err, models.ErrUnmappedCategory)
	assert.ErrorIs(t, svc.ValidateCategoryMapping(context.Background()), models.ErrUnmappedCategory)
}

func TestLatestProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	nbCat := seedCategory(t, db, "Notebooks", "notebooks")
	phCat := seedCategory(t, db, "Smartphones", "smartphones")
	var notebooks []*models.Notebook
	var phones []*models.Smartphone
	for i := 0; i < 6; i++ {
		notebooks = append(notebooks, seedNotebook(t, db, nbCat.ID, fmt.Sprintf("nb-%d", i), "1000.00"))
		phones = append(phones, seedSmartphone(t, db, phCat.ID, fmt.Sprintf("ph-%d", i), "500.00"))
	}

	t.Run("priority variant first", func(t *testing.T) {
		products, err := svc.LatestProducts(ctx, []models.Variant{models.VariantNotebook, models.VariantSmartphone}, models.VariantSmartphone)
		require.NoError(t, err)
		require.Len(t, products, 10)

		for i, p := range products[:5] {
			assert.Equal(t, models.VariantSmartphone, p.Variant())
			assert.Equal(t, phones[5-i].ID, p.Base().ID, "newest first")
		}
		for i, p := range products[5:] {
			assert.Equal(t, models.VariantNotebook, p.Variant())
			assert.Equal(t, notebooks[5-i].ID, p.Base().ID)
		}
	})

	t.Run("oldest beyond the cap is dropped", func(t *testing.T) {
		products, err := svc.LatestProducts(ctx, []models.Variant{models.VariantNotebook}, "")
		require.NoError(t, err)
		require.Len(t, products, LatestPerVariant)
		for _, p := range products {
			assert.NotEqual(t, notebooks[0].ID, p.Base().ID)
		}
	})

	t.Run("priority outside requested set is ignored", func(t *testing.T) {
		products, err := svc.LatestProducts(ctx, []models.Variant{models.VariantNotebook}, models.VariantSmartphone)
		require.NoError(t, err)
		require.Len(t, products, 5)
		for _, p := range products {
			assert.Equal(t, models.VariantNotebook, p.Variant())
		}
	})

	t.Run("no priority keeps request order", func(t *testing.T) {
		products, err := svc.LatestProducts(ctx, []models.Variant{models.VariantNotebook, models.VariantSmartphone, models.VariantNotebook}, "")
		require.NoError(t, err)
		require.Len(t, products, 10)
		assert.Equal(t, models.VariantNotebook, products[0].Variant())
		assert.Equal(t, models.VariantSmartphone, products[9].Variant())
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := svc.LatestProducts(ctx, []models.Variant{"tablet"}, "")
		assert.ErrorIs(t, err, models.ErrUnknownVariant)
	})
}

func TestLatestProducts_FewerThanCap(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	phCat := seedCategory(t, db, "Smartphones", "smartphones")
	seedSmartphone(t, db, phCat.ID, "only", "100.00")

	products, err := svc.LatestProducts(context.Background(), models.Variants, models.VariantNotebook)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "only", products[0].Base().Slug)
}

func TestCreateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, "Notebooks", "notebooks")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	_, err = svc.CreateCategory(ctx, "Smartphones", "notebooks")
	assert.ErrorIs(t, err, models.ErrDuplicateSlug)

	_, err = svc.CreateCategory(ctx, "Tablets", "tablets")
	assert.ErrorIs(t, err, models.ErrUnmappedCategory)
}

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()
	cat := seedCategory(t, db, "Notebooks", "notebooks")

	nb := &models.Notebook{ProductBase: models.ProductBase{CategoryID: cat.ID, Title: "X1", Slug: "x1"}}
	require.NoError(t, svc.CreateProduct(ctx, nb))
	assert.NotZero(t, nb.ID)

	dup := &models.Notebook{ProductBase: models.ProductBase{CategoryID: cat.ID, Title: "X1 again", Slug: "x1"}}
	assert.ErrorIs(t, svc.CreateProduct(ctx, dup), models.ErrDuplicateSlug)

	orphan := &models.Smartphone{ProductBase: models.ProductBase{CategoryID: cat.ID + 100, Title: "P", Slug: "p"}}
	assert.ErrorIs(t, svc.CreateProduct(ctx, orphan), models.ErrNotFound)
}

func TestProductAndCategoryDetail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()
	cat := seedCategory(t, db, "Smartphones", "smartphones")
	seedSmartphone(t, db, cat.ID, "a", "100.00")
	seedSmartphone(t, db, cat.ID, "b", "200.00")

	p, err := svc.ProductDetail(ctx, models.VariantSmartphone, "b")
	require.NoError(t, err)
	assert.Equal(t, "200.00", p.UnitPrice().StringFixed(2))
	assert.Equal(t, "/products/smartphone/b", models.ProductURL(p))

	_, err = svc.ProductDetail(ctx, models.VariantNotebook, "b")
	assert.ErrorIs(t, err, models.ErrNotFound)

	c, products, err := svc.CategoryDetail(ctx, "smartphones")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, c.ID)
	require.Len(t, products, 2)
	assert.Equal(t, "b", products[0].Base().Slug)

	_, _, err = svc.CategoryDetail(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetProductImage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()
	cat := seedCategory(t, db, "Notebooks", "notebooks")
	nb := seedNotebook(t, db, cat.ID, "x1", "10.00")

	require.NoError(t, svc.SetProductImage(ctx, nb, "https://cdn.example.com/x1.png"))

	p, err := svc.ProductDetail(ctx, models.VariantNotebook, "x1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x1.png", p.Base().Image)
}
