package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

// Status labels only. Any status may be replaced by any other; no forward-only
// transition guard exists.
const (
	StatusNew        OrderStatus = "new"
	StatusInProgress OrderStatus = "in_progress"
	StatusReady      OrderStatus = "is_ready"
	StatusCompleted  OrderStatus = "completed"
)

var OrderStatuses = []OrderStatus{StatusNew, StatusInProgress, StatusReady, StatusCompleted}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

type BuyingType string

const (
	BuyingSelf     BuyingType = "self"
	BuyingDelivery BuyingType = "delivery"
)

func ParseBuyingType(s string) (BuyingType, error) {
	switch BuyingType(s) {
	case BuyingSelf, BuyingDelivery:
		return BuyingType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBuyingType, s)
}

type Order struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	CustomerID uint           `gorm:"not null;index" json:"customerId"`
	Customer   *Customer      `json:"-"`
	FirstName  string         `gorm:"size:255;not null" json:"firstName"`
	LastName   string         `gorm:"size:255;not null" json:"lastName"`
	Phone      string         `gorm:"size:20;not null" json:"phone"`
	CartID     *uint          `gorm:"index" json:"cartId"`
	Cart       *Cart          `json:"cart,omitempty"`
	Address    *string        `gorm:"size:1024" json:"address"`
	Status     OrderStatus    `gorm:"size:100;not null" json:"status"`
	BuyingType BuyingType     `gorm:"size:100;not null" json:"buyingType"`
	Comment    *string        `gorm:"type:text" json:"comment"`
	OrderDate  datatypes.Date `gorm:"not null" json:"orderDate"`
}

// BeforeSave is the choice constraint on status and buying type.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if _, err := ParseOrderStatus(string(o.Status)); err != nil {
		return err
	}
	if _, err := ParseBuyingType(string(o.BuyingType)); err != nil {
		return err
	}
	return nil
}
