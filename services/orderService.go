package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kariqs/netshop-api/events"
	"github.com/Kariqs/netshop-api/metrics"
	"github.com/Kariqs/netshop-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notifier tells a customer their order went through.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, user models.User, order models.Order, cart models.Cart) error
}

type CheckoutInput struct {
	FirstName  string           `json:"firstName" binding:"required"`
	LastName   string           `json:"lastName" binding:"required"`
	Phone      string           `json:"phone" binding:"required"`
	Address    *string          `json:"address"`
	BuyingType models.BuyingType `json:"buyingType" binding:"required"`
	Comment    *string          `json:"comment"`
	OrderDate  *time.Time       `json:"orderDate"`
}

type OrderService struct {
	db        *gorm.DB
	publisher events.Publisher
	notifier  Notifier
	metrics   *metrics.Metrics
}

func NewOrderService(db *gorm.DB, publisher events.Publisher, notifier Notifier, m *metrics.Metrics) *OrderService {
	if publisher == nil {
		publisher = events.NewLogPublisher(nil)
	}
	if m == nil {
		m = metrics.Default
	}
	return &OrderService{db: db, publisher: publisher, notifier: notifier, metrics: m}
}

// Checkout turns the customer's open cart into a new order. The order row,
// the cart's in_order flag and the customer's order history change together.
func (s *OrderService) Checkout(ctx context.Context, customer *models.Customer, cart *models.Cart, in CheckoutInput) (*models.Order, error) {
	if cart.InOrder {
		return nil, models.ErrCartCheckedOut
	}
	if in.BuyingType == models.BuyingDelivery && (in.Address == nil || *in.Address == "") {
		return nil, fmt.Errorf("%w: delivery needs an address", models.ErrInvalidBuyingType)
	}

	orderDate := time.Now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}

	cartID := cart.ID
	order := &models.Order{
		CustomerID: customer.ID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		CartID:     &cartID,
		Address:    in.Address,
		Status:     models.StatusNew,
		BuyingType: in.BuyingType,
		Comment:    in.Comment,
		OrderDate:  datatypes.Date(orderDate),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines int64
		if err := tx.Model(&models.CartProduct{}).Where("cart_id = ?", cart.ID).Count(&lines).Error; err != nil {
			return fmt.Errorf("failed to count cart lines: %w", err)
		}
		if lines == 0 {
			return models.ErrEmptyCart
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		res := tx.Model(&models.Cart{}).
			Where("id = ? AND in_order = ?", cart.ID, false).
			Update("in_order", true)
		if res.Error != nil {
			return fmt.Errorf("failed to close cart: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrCartCheckedOut
		}
		err := tx.Table("customer_orders").Create(map[string]any{
			"customer_id": customer.ID,
			"order_id":    order.ID,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to link order to customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cart.InOrder = true
	s.metrics.OrdersCreated.Inc()

	evt := events.OrderCreatedEvent{
		OrderID:       order.ID,
		CustomerID:    customer.ID,
		CartID:        cart.ID,
		TotalProducts: cart.TotalProducts,
		FinalPrice:    cart.FinalPrice,
		BuyingType:    string(order.BuyingType),
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(ctx, events.TopicOrderCreated, fmt.Sprint(order.ID), evt); err != nil {
		slog.ErrorContext(ctx, "failed to publish order created event", "order_id", order.ID, "error", err)
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyOrderPlaced(ctx, customer.User, *order, *cart); err != nil {
			slog.ErrorContext(ctx, "failed to send order confirmation", "order_id", order.ID, "error", err)
		}
	}
	return order, nil
}

// UpdateStatus sets any valid status, whatever the current one is.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if _, err := models.ParseOrderStatus(string(status)); err != nil {
		return nil, err
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	old := order.Status
	order.Status = status
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	s.metrics.OrderStatusChanges.WithLabelValues(string(status)).Inc()

	evt := events.OrderStatusChangedEvent{
		OrderID:   order.ID,
		OldStatus: string(old),
		NewStatus: string(status),
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, events.TopicOrderStatusChanged, fmt.Sprint(order.ID), evt); err != nil {
		slog.ErrorContext(ctx, "failed to publish order status event", "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Cart.Products").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return &order, nil
}

// CustomerOrders returns the customer's order history, newest first.
func (s *OrderService) CustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Joins("JOIN customer_orders ON customer_orders.order_id = orders.id").
		Where("customer_orders.customer_id = ?", customerID).
		Order("orders.id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer orders: %w", err)
	}
	return orders, nil
}

type OrderPage struct {
	Orders     []models.Order `json:"orders"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
}

// ListOrders pages through all orders. sort is "asc" or "desc" on creation time.
func (s *OrderService) ListOrders(ctx context.Context, page, limit int, sort string, status models.OrderStatus) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if sort != "asc" {
		sort = "desc"
	}

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := query.Order("created_at " + sort).Order("id " + sort).
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return &OrderPage{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}
