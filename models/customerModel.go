package models

import "time"

// Customer links an identity to contact details and its order history.
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"userId"`
	User      User      `json:"user"`
	Phone     *string   `gorm:"size:20" json:"phone"`
	Address   *string   `gorm:"size:255" json:"address"`
	Orders    []Order   `gorm:"many2many:customer_orders" json:"orders,omitempty"`
}
