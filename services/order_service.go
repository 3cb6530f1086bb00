package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SiRoHK/MiniAnazinClone/apperrors"
	"github.com/SiRoHK/MiniAnazinClone/models"
	"github.com/SiRoHK/MiniAnazinClone/repository"
	"github.com/SiRoHK/MiniAnazinClone/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService validates a cart against catalog stock and persists orders.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, items []types.OrderItemRequest) (*models.Order, error)
}

type orderService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderService creates an OrderService over a pooled database handle.
func NewOrderService(db *gorm.DB, logger *zap.Logger) OrderService {
	return &orderService{db: db, logger: logger}
}

// PlaceOrder checks and decrements stock for every line, snapshots unit
// prices, and persists the order with its items. The whole operation runs in
// one transaction with FOR UPDATE row locks on the products, so a failure on
// any line leaves no stock decremented and no order recorded, and concurrent
// checkouts cannot oversell.
func (s *orderService) PlaceOrder(ctx context.Context, userID uint, items []types.OrderItemRequest) (*models.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.InvalidArgument("order must contain at least one item")
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		products := repository.NewGormProductRepository(tx)
		orders := repository.NewGormOrderRepository(tx)

		var totalAmount float64
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, line := range items {
			product, err := products.FindForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}

			if product.Stock < line.Quantity {
				return apperrors.InsufficientStock(
					fmt.Sprintf("not enough stock for product %s", product.Name))
			}

			if err := products.UpdateStock(ctx, product.ID, product.Stock-line.Quantity); err != nil {
				s.logger.Error("Failed to decrement stock",
					zap.Uint("product_id", product.ID), zap.Error(err))
				return apperrors.Internal("failed to place order", err)
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
			totalAmount += product.Price * float64(line.Quantity)
		}

		order = &models.Order{
			UserID:      userID,
			OrderDate:   time.Now().UTC(),
			TotalAmount: totalAmount,
			Status:      models.OrderStatusPending,
			OrderItems:  orderItems,
		}
		if err := orders.Create(ctx, order); err != nil {
			s.logger.Error("Failed to persist order", zap.Uint("user_id", userID), zap.Error(err))
			return apperrors.Internal("failed to place order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.Int("items", len(order.OrderItems)),
		zap.Float64("total_amount", order.TotalAmount),
	)
	return order, nil
}
