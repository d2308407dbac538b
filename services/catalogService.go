package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Kariqs/netshop-api/models"
	"gorm.io/gorm"
)

// LatestPerVariant caps how many products of each variant LatestProducts returns.
const LatestPerVariant = 5

type CategoryCount struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int64  `json:"count"`
}

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// SidebarCategoryCounts returns, for every category, how many products of its
// mapped variant belong to it.
func (s *CatalogService) SidebarCategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	counts := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		n, err := s.countProducts(ctx, c)
		if err != nil {
			return nil, err
		}
		counts = append(counts, CategoryCount{Name: c.Name, URL: c.URL(), Count: n})
	}
	return counts, nil
}

func (s *CatalogService) countProducts(ctx context.Context, c models.Category) (int64, error) {
	v, err := models.VariantForCategory(c.Name)
	if err != nil {
		return 0, err
	}
	a, err := models.AccessorFor(v)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(a.Model()).Where("category_id = ?", c.ID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s products: %w", v, err)
	}
	return n, nil
}

// LatestProducts concatenates the newest LatestPerVariant products of each
// requested variant, in request order. When priority is one of the requested
// variants its products are moved to the front, keeping relative order.
func (s *CatalogService) LatestProducts(ctx context.Context, variants []models.Variant, priority models.Variant) ([]models.Product, error) {
	var products []models.Product
	requested := make(map[models.Variant]bool, len(variants))
	for _, v := range variants {
		if requested[v] {
			continue
		}
		requested[v] = true

		a, err := models.AccessorFor(v)
		if err != nil {
			return nil, err
		}
		latest, err := a.Find(s.db.WithContext(ctx).Order("id desc").Limit(LatestPerVariant))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch latest %s products: %w", v, err)
		}
		products = append(products, latest...)
	}

	if priority != "" && requested[priority] {
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Variant() == priority && products[j].Variant() != priority
		})
	}
	return products, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &c, nil
}

// CategoryDetail returns a category and the products of its mapped variant.
func (s *CatalogService) CategoryDetail(ctx context.Context, slug string) (*models.Category, []models.Product, error) {
	c, err := s.CategoryBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	v, err := models.VariantForCategory(c.Name)
	if err != nil {
		return nil, nil, err
	}
	a, err := models.AccessorFor(v)
	if err != nil {
		return nil, nil, err
	}
	products, err := a.Find(s.db.WithContext(ctx).Where("category_id = ?", c.ID).Order("id desc"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s products: %w", v, err)
	}
	return c, products, nil
}

func (s *CatalogService) ProductDetail(ctx context.Context, v models.Variant, slug string) (models.Product, error) {
	a, err := models.AccessorFor(v)
	if err != nil {
		return nil, err
	}
	p, err := a.First(s.db.WithContext(ctx).Where("slug = ?", slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s: %w", v, err)
	}
	return p, nil
}

// CreateCategory refuses names without a variant mapping so the sidebar can
// always count every stored category.
func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	if _, err := models.VariantForCategory(name); err != nil {
		return nil, err
	}
	c := &models.Category{Name: name, Slug: slug}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, translateWriteError("category", err)
	}
	return c, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p models.Product) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", p.Base().CategoryID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category #%d: %w", p.Base().CategoryID, models.ErrNotFound)
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return translateWriteError(string(p.Variant()), err)
	}
	return nil
}

func (s *CatalogService) SetProductImage(ctx context.Context, p models.Product, url string) error {
	p.Base().Image = url
	if err := s.db.WithContext(ctx).Model(p).Update("image", url).Error; err != nil {
		return fmt.Errorf("failed to save product image: %w", err)
	}
	return nil
}

// ValidateCategoryMapping reports stored categories the variant table does not know.
func (s *CatalogService) ValidateCategoryMapping(ctx context.Context) error {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Pluck("name", &names).Error; err != nil {
		return fmt.Errorf("failed to list category names: %w", err)
	}
	var errs []error
	for _, name := range names {
		if _, err := models.VariantForCategory(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func translateWriteError(what string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, models.ErrDuplicateSlug)
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}
