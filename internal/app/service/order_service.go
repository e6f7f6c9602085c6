package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyConfirmed = errors.New("order is already confirmed")
	ErrOrderEmpty            = errors.New("order has no lines")
	ErrInvalidQuantity       = errors.New("line quantity must be positive")
	ErrInsufficientStock     = errors.New("insufficient stock")
)

// StockShortage describes one fish whose stock cannot cover the requested
// quantity.
type StockShortage struct {
	FishID    uint   `json:"fish_id"`
	FishName  string `json:"fish_name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError lists every fish that blocked a confirmation. It
// matches ErrInsufficientStock under errors.Is so callers can branch without
// inspecting the shortage list.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		names = append(names, fmt.Sprintf("%s (requested %d, available %d)", s.FishName, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(names, ", ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// OrderLineInput is one requested line at order creation.
type OrderLineInput struct {
	FishID   uint `json:"fish_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

type OrderService interface {
	CreateOrder(userID uint, lines []OrderLineInput) (*model.Order, error)
	CreateOrderFromCart(userID uint) (*model.Order, error)
	ConfirmOrder(userID, orderID uint) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
}

type orderService struct {
	orderRepo       repository.OrderRepository
	fishRepo        repository.FishRepository
	cartRepo        repository.CartRepository
	db              *gorm.DB
	notificationSvc NotificationService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	fishRepo repository.FishRepository,
	cartRepo repository.CartRepository,
	db *gorm.DB,
	notificationSvc ...NotificationService,
) OrderService {
	var notifSvc NotificationService
	if len(notificationSvc) > 0 {
		notifSvc = notificationSvc[0]
	}
	return &orderService{
		orderRepo:       orderRepo,
		fishRepo:        fishRepo,
		cartRepo:        cartRepo,
		db:              db,
		notificationSvc: notifSvc,
	}
}

// CreateOrder opens a draft order. No stock is touched or reserved; stock is
// validated and committed only at confirmation.
func (s *orderService) CreateOrder(userID uint, lines []OrderLineInput) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id":    userID,
		"line_count": len(lines),
	})

	if len(lines) == 0 {
		logger.Warn("Order creation rejected: no lines", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrOrderEmpty
	}

	orderLines := make([]model.OrderLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			logger.Warn("Order creation rejected: non-positive quantity", map[string]interface{}{
				"user_id":  userID,
				"fish_id":  line.FishID,
				"quantity": line.Quantity,
			})
			return nil, ErrInvalidQuantity
		}

		if _, err := s.fishRepo.FindByID(line.FishID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Order creation rejected: fish not found", map[string]interface{}{
					"user_id": userID,
					"fish_id": line.FishID,
				})
				return nil, ErrFishNotFound
			}
			return nil, err
		}

		orderLines = append(orderLines, model.OrderLine{
			FishID:   line.FishID,
			Quantity: line.Quantity,
		})
	}

	order := &model.Order{
		OrderNumber: uuid.NewString(),
		UserID:      userID,
		Status:      model.OrderStatusDraft,
		OrderDate:   time.Now(),
		Lines:       orderLines,
	}

	if err := s.orderRepo.Create(order); err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"line_count":   len(order.Lines),
	})
	return s.orderRepo.FindByID(order.ID)
}

// CreateOrderFromCart turns the user's cart into a draft order with one
// quantity-1 line per cart member, then empties the cart.
func (s *orderService) CreateOrderFromCart(userID uint) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindLatestByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot create order: no cart", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrCartEmpty
		}
		return nil, err
	}

	if len(cart.Items) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return nil, ErrCartEmpty
	}

	lines := make([]OrderLineInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, OrderLineInput{FishID: item.FishID, Quantity: 1})
	}

	order, err := s.CreateOrder(userID, lines)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItemsByCartID(cart.ID); err != nil {
		logger.Error("Failed to clear cart after order creation", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return nil, err
	}

	return order, nil
}

// ConfirmOrder commits a draft order's stock in one transaction. Every fish
// row touched by the order is locked, every line is validated against stock
// (lines naming the same fish validate against their cumulative quantity)
// before any decrement, and either all decrements land or none do. Stock may
// reach exactly zero, never below.
func (s *orderService) ConfirmOrder(userID, orderID uint) (*model.Order, error) {
	logger.Info("Confirming order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order confirmation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
		}
	}()

	var order model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Lines").
		First(&order, orderID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order confirmation failed: order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order for confirmation", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID {
		tx.Rollback()
		logger.Warn("Order confirmation denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	if order.Status != model.OrderStatusDraft {
		tx.Rollback()
		logger.Warn("Order confirmation rejected: not a draft", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrOrderAlreadyConfirmed
	}

	if len(order.Lines) == 0 {
		tx.Rollback()
		return nil, ErrOrderEmpty
	}

	// Aggregate requested quantities per fish so duplicate lines validate
	// against their cumulative total.
	requested := make(map[uint]int)
	for _, line := range order.Lines {
		requested[line.FishID] += line.Quantity
	}

	// Lock fish rows in ascending ID order to keep lock acquisition
	// deterministic across concurrent confirmations.
	fishIDs := make([]uint, 0, len(requested))
	for fishID := range requested {
		fishIDs = append(fishIDs, fishID)
	}
	sort.Slice(fishIDs, func(i, j int) bool { return fishIDs[i] < fishIDs[j] })

	locked := make(map[uint]model.Fish, len(fishIDs))
	var shortages []StockShortage
	for _, fishID := range fishIDs {
		var fish model.Fish
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&fish, fishID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Order confirmation failed: fish not found", map[string]interface{}{
					"order_id": orderID,
					"fish_id":  fishID,
				})
				return nil, ErrFishNotFound
			}
			logger.Error("Failed to lock fish row for confirmation", err, map[string]interface{}{
				"order_id": orderID,
				"fish_id":  fishID,
			})
			return nil, err
		}

		locked[fishID] = fish
		if fish.StockQuantity < requested[fishID] {
			shortages = append(shortages, StockShortage{
				FishID:    fish.ID,
				FishName:  fish.Name,
				Requested: requested[fishID],
				Available: fish.StockQuantity,
			})
		}
	}

	// All lines validated before any write. Any shortage aborts the whole
	// confirmation with no stock change.
	if len(shortages) > 0 {
		tx.Rollback()
		logger.Warn("Order confirmation failed: insufficient stock", map[string]interface{}{
			"order_id":       orderID,
			"shortage_count": len(shortages),
		})
		return nil, &InsufficientStockError{Shortages: shortages}
	}

	var soldOut []model.Fish
	for _, fishID := range fishIDs {
		if err := tx.Model(&model.Fish{}).
			Where("id = ?", fishID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", requested[fishID])).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement fish stock", err, map[string]interface{}{
				"order_id": orderID,
				"fish_id":  fishID,
			})
			return nil, err
		}

		if err := recomputeAvailability(tx, fishID); err != nil {
			tx.Rollback()
			logger.Error("Failed to recompute availability", err, map[string]interface{}{
				"order_id": orderID,
				"fish_id":  fishID,
			})
			return nil, err
		}

		if locked[fishID].StockQuantity == requested[fishID] {
			soldOut = append(soldOut, locked[fishID])
		}
	}

	if err := tx.Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", model.OrderStatusConfirmed).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order confirmation", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	confirmed, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}

	logger.Info("Order confirmed successfully", map[string]interface{}{
		"order_id":     orderID,
		"order_number": confirmed.OrderNumber,
		"user_id":      userID,
		"total_price":  confirmed.TotalPrice(),
	})

	// Notifications are best-effort and never fail the confirmation.
	if s.notificationSvc != nil {
		s.notificationSvc.NotifyOrderConfirmed(userID, confirmed)
		for i := range soldOut {
			s.notificationSvc.NotifyFishSoldOut(&soldOut[i])
		}
	}

	return confirmed, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	logger.Debug("Fetching order by ID", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}
