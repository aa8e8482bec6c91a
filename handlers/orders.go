package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gulverda/C-Final-Web-Store/metrics"
	"github.com/Gulverda/C-Final-Web-Store/services"
)

// CreateOrder handles POST /api/orders: the checkout endpoint. The optional
// Idempotency-Key header lets a client resubmit safely after a network
// failure without producing a second order.
func CreateOrder(c *gin.Context) {
	var req struct {
		CustomerName string `json:"customerName" binding:"required"`
		Address      string `json:"address" binding:"required"`
		Phone        string `json:"phone" binding:"required"`
		SessionID    string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info := services.CustomerInfo{
		Name:    req.CustomerName,
		Address: req.Address,
		Phone:   req.Phone,
	}
	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))

	order, err := Checkout.Checkout(c.Request.Context(), req.SessionID, info, idemKey)
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			metrics.CheckoutFailures.WithLabelValues("empty_cart").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"message": "Your cart is empty."})
		case errors.As(err, &validation):
			metrics.CheckoutFailures.WithLabelValues("invalid_fields").Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Some fields are invalid.",
				"fields":  validation.Fields,
			})
		default:
			metrics.CheckoutFailures.WithLabelValues("dependency").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order. Please try again."})
		}
		return
	}

	metrics.OrdersCreated.Inc()
	c.JSON(http.StatusOK, order)
}

// GetOrder handles GET /api/orders/:id
func GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := DB.OrderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, order)
}
