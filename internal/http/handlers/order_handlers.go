package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
	"github.com/EthanNaitwe/KampalaGrocery/internal/http/middleware"
)

// OrderHandlers serves checkout and order tracking.
type OrderHandlers struct {
	orderSvc domain.OrderService
}

// NewOrderHandlers creates new order handlers.
func NewOrderHandlers(orderSvc domain.OrderService) *OrderHandlers {
	return &OrderHandlers{orderSvc: orderSvc}
}

// CheckoutRequest represents a checkout body. All contact fields are
// optional; an order can be placed with none of them.
type CheckoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerEmail   string `json:"customerEmail"`
	Notes           string `json:"notes"`
}

// UpdateStatusRequest represents an order status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List handles GET /api/orders. Admins see every order with the
// owning user attached, everyone else sees only their own.
func (h *OrderHandlers) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if user.IsAdmin {
		orders, err := h.orderSvc.OrdersForAdmin(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}

	orders, err := h.orderSvc.OrdersForUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get handles GET /api/orders/:id
func (h *OrderHandlers) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	order, err := h.orderSvc.Order(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order"})
		return
	}

	// Owners and admins only.
	if order.UserID != user.ID && !user.IsAdmin {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Checkout handles POST /api/orders
func (h *OrderHandlers) Checkout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	order, err := h.orderSvc.Checkout(c.Request.Context(), user.ID, domain.CheckoutInput{
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdateStatus handles PUT /api/orders/:id/status (admin)
func (h *OrderHandlers) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	order, err := h.orderSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOrderStatus):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}
