package db

import (
	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Fish{},
		&model.Review{},
		&model.Favorite{},
		&model.Category{},
		&model.ShoppingCart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderLine{},
		&model.Platform{},
		&model.PlatformUser{},
		&model.ActivityLog{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding category data...")

	categories := []model.Category{
		{Name: "Freshwater", Description: "Freshwater aquarium fish"},
		{Name: "Saltwater", Description: "Marine and reef aquarium fish"},
		{Name: "Cichlids", Description: "African and South American cichlids"},
		{Name: "Livebearers", Description: "Guppies, mollies, platies and swordtails"},
		{Name: "Catfish", Description: "Bottom dwellers and algae eaters"},
		{Name: "Bettas", Description: "Siamese fighting fish"},
		{Name: "Tetras", Description: "Schooling characins"},
		{Name: "Goldfish & Koi", Description: "Cold water pond and tank fish"},
	}

	totalInserted := 0
	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": category.Name,
			})
			return err
		}
		totalInserted++
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": totalInserted,
	})

	return nil
}
