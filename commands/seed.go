package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kariqs/netshop-api/controllers"
	"github.com/Kariqs/netshop-api/initializers"
	"github.com/Kariqs/netshop-api/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	adminEmail    string
	adminUsername string
	adminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the mapped categories and an admin account",
	Long: `Create one category per product variant (skipping existing slugs) and,
when --admin-email and --admin-password are given, an admin account.

Examples:
  netshop seed
  netshop seed --admin-email admin@example.com --admin-password 's3cret-pass'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openDatabase(); err != nil {
			return err
		}
		defer initializers.CloseDB()

		if err := seedCategories(initializers.DB); err != nil {
			return err
		}
		if adminEmail == "" || adminPassword == "" {
			return nil
		}
		return seedAdmin(initializers.DB)
	},
}

func init() {
	seedCmd.Flags().StringVar(&adminEmail, "admin-email", "", "Email of the admin account to create")
	seedCmd.Flags().StringVar(&adminUsername, "admin-username", "admin", "Username of the admin account")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password of the admin account (min 8 characters)")
	rootCmd.AddCommand(seedCmd)
}

func seedCategories(db *gorm.DB) error {
	for _, name := range models.CategoryNames() {
		category := models.Category{Name: name, Slug: strings.ToLower(name)}
		if err := db.Where(models.Category{Slug: category.Slug}).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
		slog.Info("category ready", "name", category.Name, "slug", category.Slug)
	}
	return nil
}

func seedAdmin(db *gorm.DB) error {
	if len(adminPassword) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}
	_, err := controllers.CreateAccount(db, models.SignupData{
		Username: adminUsername,
		Email:    adminEmail,
		Password: adminPassword,
	}, "admin")
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		slog.Info("admin account already exists", "email", adminEmail)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	slog.Info("admin account created", "email", adminEmail)
	return nil
}
