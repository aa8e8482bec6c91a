package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gulverda/C-Final-Web-Store/metrics"
	"github.com/Gulverda/C-Final-Web-Store/services"
)

// sessionID extracts the caller-supplied session token. The API does not
// mint or validate it; the presentation tier owns the cookie.
func sessionID(c *gin.Context) (string, bool) {
	id := c.Query("sessionId")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return "", false
	}
	return id, true
}

// GetCart handles GET /api/cart
func GetCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := Cart.GetCart(c.Request.Context(), sid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	metrics.CartOperations.WithLabelValues("read").Inc()
	c.JSON(http.StatusOK, view)
}

// AddToCart handles POST /api/cart/items
func AddToCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		ProductID int64 `json:"productId" binding:"required"`
		Quantity  int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line, err := Cart.AddItem(c.Request.Context(), sid, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found"})
		case errors.Is(err, services.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		}
		return
	}

	metrics.CartOperations.WithLabelValues("add").Inc()
	c.JSON(http.StatusOK, line)
}

// UpdateCartItem handles PUT /api/cart/items/:productId
func UpdateCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line, err := Cart.SetQuantity(c.Request.Context(), sid, productID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found"})
		case errors.Is(err, services.ErrCartItemNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item not in cart"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		}
		return
	}

	metrics.CartOperations.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, line)
}

// RemoveFromCart handles DELETE /api/cart/items/:productId
func RemoveFromCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if !Cart.RemoveItem(sid, productID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	metrics.CartOperations.WithLabelValues("remove").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}
