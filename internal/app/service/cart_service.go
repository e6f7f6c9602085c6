package service

import (
	"errors"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("fish is not in the cart")
	ErrCartEmpty        = errors.New("cart is empty")
)

// CartView is the cart read model: membership plus the live total computed
// from current catalog prices.
type CartView struct {
	Cart       *model.ShoppingCart `json:"cart"`
	TotalPrice float64             `json:"total_price"`
	ItemCount  int                 `json:"item_count"`
}

type CartService interface {
	GetCart(userID uint) (*CartView, error)
	AddItem(userID, fishID uint) (*CartView, error)
	RemoveItem(userID, fishID uint) (*CartView, error)
	EmptyCart(userID uint) error
}

type cartService struct {
	cartRepo repository.CartRepository
	fishRepo repository.FishRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	fishRepo repository.FishRepository,
) CartService {
	return &cartService{
		cartRepo: cartRepo,
		fishRepo: fishRepo,
	}
}

// findOrCreateCart returns the user's working cart, creating one on first use.
func (s *cartService) findOrCreateCart(userID uint) (*model.ShoppingCart, error) {
	cart, err := s.cartRepo.FindLatestByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	logger.Debug("No cart found for user, creating one", map[string]interface{}{
		"user_id": userID,
	})

	cart = &model.ShoppingCart{UserID: userID}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) view(cartID uint) (*CartView, error) {
	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		return nil, err
	}
	return &CartView{
		Cart:       cart,
		TotalPrice: cart.TotalPrice(),
		ItemCount:  len(cart.Items),
	}, nil
}

func (s *cartService) GetCart(userID uint) (*CartView, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.findOrCreateCart(userID)
	if err != nil {
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return s.view(cart.ID)
}

// AddItem puts a fish into the cart. Cart membership is a set: adding a fish
// that is already present is a no-op, not an error.
func (s *cartService) AddItem(userID, fishID uint) (*CartView, error) {
	logger.Info("Adding fish to cart", map[string]interface{}{
		"user_id": userID,
		"fish_id": fishID,
	})

	if _, err := s.fishRepo.FindByID(fishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart add rejected: fish not found", map[string]interface{}{
				"fish_id": fishID,
			})
			return nil, ErrFishNotFound
		}
		return nil, err
	}

	cart, err := s.findOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.cartRepo.FindItem(cart.ID, fishID); err == nil {
		logger.Debug("Fish already in cart, skipping", map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
			"fish_id": fishID,
		})
		return s.view(cart.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &model.CartItem{
		CartID: cart.ID,
		FishID: fishID,
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		logger.Error("Failed to add fish to cart", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
			"fish_id": fishID,
		})
		return nil, err
	}

	logger.Info("Fish added to cart successfully", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
		"fish_id": fishID,
	})
	return s.view(cart.ID)
}

func (s *cartService) RemoveItem(userID, fishID uint) (*CartView, error) {
	logger.Info("Removing fish from cart", map[string]interface{}{
		"user_id": userID,
		"fish_id": fishID,
	})

	cart, err := s.cartRepo.FindLatestByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if _, err := s.cartRepo.FindItem(cart.ID, fishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart remove rejected: fish not in cart", map[string]interface{}{
				"user_id": userID,
				"cart_id": cart.ID,
				"fish_id": fishID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(cart.ID, fishID); err != nil {
		return nil, err
	}

	logger.Info("Fish removed from cart successfully", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
		"fish_id": fishID,
	})
	return s.view(cart.ID)
}

// EmptyCart removes every item from the user's cart. Emptying an already
// empty cart, or a user with no cart at all, succeeds silently.
func (s *cartService) EmptyCart(userID uint) error {
	logger.Info("Emptying cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindLatestByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := s.cartRepo.DeleteItemsByCartID(cart.ID); err != nil {
		return err
	}

	logger.Info("Cart emptied successfully", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
	})
	return nil
}
