package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/netshop-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// CartForCustomer returns the customer's open cart, creating it on first use.
func (s *CartService) CartForCustomer(ctx context.Context, customerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND in_order = ?", customerID, false).
		Order("id desc").
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	cart = models.Cart{OwnerID: &customerID}
	if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// CartForSession returns the open anonymous cart bound to a session key,
// creating it on first use.
func (s *CartService) CartForSession(ctx context.Context, sessionKey string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Where("session_key = ? AND in_order = ?", sessionKey, false).
		Order("id desc").
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	cart = models.Cart{SessionKey: &sessionKey, ForAnonymousUser: true}
	if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

func (s *CartService) findLine(tx *gorm.DB, cart *models.Cart, ref models.ProductRef) (*models.CartProduct, error) {
	var line models.CartProduct
	err := tx.Where("cart_id = ? AND content_type = ? AND object_id = ?", cart.ID, string(ref.Variant()), ref.ObjectID()).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart line: %w", err)
	}
	return &line, nil
}

// AddProduct puts qty units of a product in the cart, adding to an existing
// line for the same product when there is one.
func (s *CartService) AddProduct(ctx context.Context, cart *models.Cart, customerID *uint, ref models.ProductRef, qty uint) (*models.CartProduct, error) {
	if qty == 0 {
		return nil, models.ErrInvalidQuantity
	}
	if cart.InOrder {
		return nil, models.ErrCartCheckedOut
	}
	db := s.db.WithContext(ctx)

	line, err := s.findLine(db, cart, ref)
	switch {
	case err == nil:
		line.Qty += qty
	case errors.Is(err, models.ErrNotFound):
		line = &models.CartProduct{CartID: cart.ID, CustomerID: customerID, Qty: qty}
		line.SetRef(ref)
	default:
		return nil, err
	}

	if err := db.Save(line).Error; err != nil {
		return nil, fmt.Errorf("failed to save cart line: %w", err)
	}
	if err := s.RecalculateTotals(ctx, cart); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *CartService) ChangeQuantity(ctx context.Context, cart *models.Cart, ref models.ProductRef, qty uint) (*models.CartProduct, error) {
	if qty == 0 {
		return nil, models.ErrInvalidQuantity
	}
	if cart.InOrder {
		return nil, models.ErrCartCheckedOut
	}
	db := s.db.WithContext(ctx)

	line, err := s.findLine(db, cart, ref)
	if err != nil {
		return nil, err
	}
	line.Qty = qty
	if err := db.Save(line).Error; err != nil {
		return nil, fmt.Errorf("failed to save cart line: %w", err)
	}
	if err := s.RecalculateTotals(ctx, cart); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *CartService) RemoveProduct(ctx context.Context, cart *models.Cart, ref models.ProductRef) error {
	if cart.InOrder {
		return models.ErrCartCheckedOut
	}
	db := s.db.WithContext(ctx)

	line, err := s.findLine(db, cart, ref)
	if err != nil {
		return err
	}
	if err := db.Delete(line).Error; err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return s.RecalculateTotals(ctx, cart)
}

// RecalculateTotals sets the cart's line count and the exact sum of its line totals.
func (s *CartService) RecalculateTotals(ctx context.Context, cart *models.Cart) error {
	var lines []models.CartProduct
	if err := s.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Find(&lines).Error; err != nil {
		return fmt.Errorf("failed to load cart lines: %w", err)
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.FinalPrice)
	}
	cart.TotalProducts = uint(len(lines))
	cart.FinalPrice = total

	err := s.db.WithContext(ctx).Model(cart).Omit(clause.Associations).Updates(map[string]any{
		"total_products": cart.TotalProducts,
		"final_price":    cart.FinalPrice,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update cart totals: %w", err)
	}
	cart.Products = lines
	return nil
}

// CartLine is a line item together with the product it references.
type CartLine struct {
	models.CartProduct
	Product models.Product
}

// Lines loads the cart's line items and resolves their products.
func (s *CartService) Lines(ctx context.Context, cart *models.Cart) ([]CartLine, error) {
	var items []models.CartProduct
	if err := s.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		ref, err := item.Ref()
		if err != nil {
			return nil, err
		}
		p, err := models.Resolve(s.db.WithContext(ctx), ref)
		if err != nil {
			return nil, err
		}
		lines = append(lines, CartLine{CartProduct: item, Product: p})
	}
	return lines, nil
}
