package initializers

import (
	"log/slog"

	"github.com/Kariqs/netshop-api/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the shop uses.
func Migrate(db *gorm.DB) error {
	tables := []any{&models.User{}, &models.Category{}}
	tables = append(tables, models.ProductModels()...)
	tables = append(tables, &models.Customer{}, &models.Cart{}, &models.CartProduct{}, &models.Order{})
	return db.AutoMigrate(tables...)
}

func SyncDatabase() error {
	if err := Migrate(DB); err != nil {
		return err
	}
	slog.Info("database synced successfully")
	return nil
}
