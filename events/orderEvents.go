package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreatedEvent struct {
	OrderID       uint            `json:"order_id"`
	CustomerID    uint            `json:"customer_id"`
	CartID        uint            `json:"cart_id"`
	TotalProducts uint            `json:"total_products"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	BuyingType    string          `json:"buying_type"`
	Timestamp     time.Time       `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	OrderID   uint      `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}
