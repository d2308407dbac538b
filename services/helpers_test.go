package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Kariqs/netshop-api/initializers"
	"github.com/Kariqs/netshop-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := initializers.OpenDB("sqlite", ":memory:", false)
	require.NoError(t, err)
	require.NoError(t, initializers.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedNotebook(t *testing.T, db *gorm.DB, categoryID uint, slug, price string) *models.Notebook {
	t.Helper()
	n := &models.Notebook{
		ProductBase: models.ProductBase{
			CategoryID: categoryID,
			Title:      "Notebook " + slug,
			Slug:       slug,
			Price:      decimal.RequireFromString(price),
		},
		Diagonal:          "15.6",
		DisplayType:       "IPS",
		ProcessorFreq:     "3.2 GHz",
		RAM:               "16 GB",
		Video:             "RTX 3050",
		TimeWithoutCharge: "8 h",
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func seedSmartphone(t *testing.T, db *gorm.DB, categoryID uint, slug, price string) *models.Smartphone {
	t.Helper()
	s := &models.Smartphone{
		ProductBase: models.ProductBase{
			CategoryID: categoryID,
			Title:      "Phone " + slug,
			Slug:       slug,
			Price:      decimal.RequireFromString(price),
		},
		Diagonal:     "6.1",
		DisplayType:  "OLED",
		Resolution:   "2532x1170",
		AccumVolume:  "3200 mAh",
		RAM:          "6 GB",
		MainCamMP:    "48",
		FrontalCamMP: "12",
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedCustomer(t *testing.T, db *gorm.DB, username string) *models.Customer {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", Password: "hash", Role: "customer"}
	require.NoError(t, db.Create(&u).Error)
	c := &models.Customer{UserID: u.ID}
	require.NoError(t, db.Create(c).Error)
	c.User = u
	return c
}

type publishedEvent struct {
	topic string
	key   string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type recordingNotifier struct {
	orders []models.Order
}

func (n *recordingNotifier) NotifyOrderPlaced(_ context.Context, _ models.User, order models.Order, _ models.Cart) error {
	n.orders = append(n.orders, order)
	return nil
}
