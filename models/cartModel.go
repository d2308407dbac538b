package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	OwnerID          *uint           `gorm:"index" json:"ownerId"`
	Owner            *Customer       `json:"-"`
	SessionKey       *string         `gorm:"size:36;index" json:"-"`
	Products         []CartProduct   `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"products"`
	TotalProducts    uint            `gorm:"not null" json:"totalProducts"`
	FinalPrice       decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"finalPrice"`
	InOrder          bool            `gorm:"not null" json:"inOrder"`
	ForAnonymousUser bool            `gorm:"not null" json:"forAnonymousUser"`
}

// CartProduct is one line item: a polymorphic product reference plus a quantity.
type CartProduct struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	CustomerID  *uint           `gorm:"index" json:"customerId"`
	CartID      uint            `gorm:"not null;index" json:"cartId"`
	ContentType Variant         `gorm:"size:32;not null;index:idx_cart_products_object" json:"contentType"`
	ObjectID    uint            `gorm:"not null;index:idx_cart_products_object" json:"objectId"`
	Qty         uint            `gorm:"not null" json:"qty"`
	FinalPrice  decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"finalPrice"`
}

func (cp *CartProduct) Ref() (ProductRef, error) {
	return NewProductRef(cp.ContentType, cp.ObjectID)
}

func (cp *CartProduct) SetRef(ref ProductRef) {
	cp.ContentType = ref.Variant()
	cp.ObjectID = ref.ObjectID()
}

// LineTotal is qty × unit price in exact decimal arithmetic.
func LineTotal(qty uint, p Priced) decimal.Decimal {
	return p.UnitPrice().Mul(decimal.NewFromInt(int64(qty)))
}

// BeforeSave derives FinalPrice from the referenced product on every
// create or update, overwriting whatever the caller set.
func (cp *CartProduct) BeforeSave(tx *gorm.DB) error {
	if cp.Qty == 0 {
		return ErrInvalidQuantity
	}
	ref, err := cp.Ref()
	if err != nil {
		return err
	}
	product, err := Resolve(tx.Session(&gorm.Session{NewDB: true}), ref)
	if err != nil {
		return fmt.Errorf("cannot price line item: %w", err)
	}
	cp.FinalPrice = LineTotal(cp.Qty, product)
	return nil
}
