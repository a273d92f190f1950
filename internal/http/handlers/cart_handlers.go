package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
	"github.com/EthanNaitwe/KampalaGrocery/internal/http/middleware"
)

// CartHandlers serves the authenticated user's cart.
type CartHandlers struct {
	cartSvc domain.CartService
}

// NewCartHandlers creates new cart handlers.
func NewCartHandlers(cartSvc domain.CartService) *CartHandlers {
	return &CartHandlers{cartSvc: cartSvc}
}

// AddToCartRequest represents an add-to-cart body
type AddToCartRequest struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity"`
}

// SetQuantityRequest represents a quantity change
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// List handles GET /api/cart
func (h *CartHandlers) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	entries, err := h.cartSvc.List(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Add handles POST /api/cart
func (h *CartHandlers) Add(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.cartSvc.Add(c.Request.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// SetQuantity handles PUT /api/cart/:productId
func (h *CartHandlers) SetQuantity(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	if err := h.cartSvc.SetQuantity(c.Request.Context(), user.ID, productID, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove handles DELETE /api/cart/:productId
func (h *CartHandlers) Remove(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	if err := h.cartSvc.Remove(c.Request.Context(), user.ID, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove from cart"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear handles DELETE /api/cart
func (h *CartHandlers) Clear(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if err := h.cartSvc.Clear(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
		return
	}
	c.Status(http.StatusNoContent)
}
