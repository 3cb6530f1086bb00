package controllers

import (
	"fmt"
	"net/http"

	"github.com/SiRoHK/MiniAnazinClone/middleware"
	"github.com/SiRoHK/MiniAnazinClone/models"
	"github.com/SiRoHK/MiniAnazinClone/repository"
	"github.com/SiRoHK/MiniAnazinClone/services"
	"github.com/SiRoHK/MiniAnazinClone/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	orders       repository.OrderRepository
	orderService services.OrderService
	logger       *zap.Logger
}

func NewOrderController(orders repository.OrderRepository, orderService services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, orderService: orderService, logger: logger}
}

// GetUserOrders returns the caller's own orders.
func (oc *OrderController) GetUserOrders(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, err := oc.orders.FindByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetAllOrders returns every order with product detail. Gated by the
// CanViewOrders policy.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.orders.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder fetches one order. Non-admins may only see their own orders; an
// existing order owned by someone else yields 403, not 404.
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := oc.orders.FindWithDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	if order.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder places an order for the caller's cart.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req types.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}

	order, err := oc.orderService.PlaceOrder(c.Request.Context(), claims.UserID, req.Items)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/orders/%d", order.ID))
	c.JSON(http.StatusCreated, order)
}
