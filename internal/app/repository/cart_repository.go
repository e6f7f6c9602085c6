package repository

import (
	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.ShoppingCart) error
	FindByID(id uint) (*model.ShoppingCart, error)
	FindLatestByUserID(userID uint) (*model.ShoppingCart, error)
	FindItem(cartID, fishID uint) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	DeleteItem(cartID, fishID uint) error
	DeleteItemsByCartID(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.ShoppingCart) error {
	logger.Debug("Creating shopping cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create shopping cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Shopping cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindByID(id uint) (*model.ShoppingCart, error) {
	logger.Debug("Finding shopping cart by ID in database", map[string]interface{}{
		"cart_id": id,
	})

	var cart model.ShoppingCart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.created_at ASC")
	}).Preload("Items.Fish").First(&cart, id).Error
	if err != nil {
		logger.Error("Failed to find shopping cart by ID in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}

	return &cart, nil
}

// FindLatestByUserID returns the user's most recent cart. A user may own more
// than one; the newest is the working cart.
func (r *cartRepository) FindLatestByUserID(userID uint) (*model.ShoppingCart, error) {
	logger.Debug("Finding latest shopping cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.ShoppingCart
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Fish").
		First(&cart).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find latest shopping cart by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepository) FindItem(cartID, fishID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND fish_id = ?", cartID, fishID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id": item.CartID,
		"fish_id": item.FishID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id": item.CartID,
			"fish_id": item.FishID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"cart_id":      item.CartID,
		"fish_id":      item.FishID,
	})
	return nil
}

func (r *cartRepository) DeleteItem(cartID, fishID uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_id": cartID,
		"fish_id": fishID,
	})

	if err := r.db.Where("cart_id = ? AND fish_id = ?", cartID, fishID).
		Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_id": cartID,
			"fish_id": fishID,
		})
		return err
	}

	logger.Debug("Cart item deleted from database", map[string]interface{}{
		"cart_id": cartID,
		"fish_id": fishID,
	})
	return nil
}

func (r *cartRepository) DeleteItemsByCartID(cartID uint) error {
	logger.Debug("Emptying shopping cart in database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to empty shopping cart in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Shopping cart emptied in database", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}
