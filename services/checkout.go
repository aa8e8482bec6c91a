package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Gulverda/C-Final-Web-Store/models"
)

// OrderStore persists order snapshots. SaveOrder must be atomic: either the
// whole snapshot (with its idempotency key, when given) is durable, or
// nothing is. A reused idempotency key yields ErrDuplicateCheckout.
type OrderStore interface {
	SaveOrder(ctx context.Context, order *models.Order, idempotencyKey string) error
	OrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
}

// CustomerInfo carries the shipping fields a shopper submits at checkout.
type CustomerInfo struct {
	Name    string
	Address string
	Phone   string
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()./-]{3,18}$`)

// Validate checks the customer fields and reports every offending one.
func (c CustomerInfo) Validate() error {
	var bad []string
	if c.Name == "" || len(c.Name) > 100 {
		bad = append(bad, "customerName")
	}
	if c.Address == "" || len(c.Address) > 500 {
		bad = append(bad, "address")
	}
	if !phonePattern.MatchString(c.Phone) {
		bad = append(bad, "phone")
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// CheckoutService converts a priced cart into a persisted order and then
// clears the cart. The order is durable before the cart is touched: a failed
// persist leaves the cart intact so the shopper can simply retry.
type CheckoutService struct {
	cart   *CartService
	orders OrderStore
}

func NewCheckoutService(cart *CartService, orders OrderStore) *CheckoutService {
	return &CheckoutService{cart: cart, orders: orders}
}

// Checkout runs the full workflow: project the cart, reject an empty one,
// validate the customer fields, persist the snapshot, clear the cart.
// idempotencyKey may be empty; when present, a resubmitted checkout returns
// the order persisted for that key instead of creating a second one.
func (s *CheckoutService) Checkout(ctx context.Context, sessionKey string, info CustomerInfo, idempotencyKey string) (*models.Order, error) {
	if idempotencyKey != "" {
		existing, err := s.orders.OrderByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			log.Printf("checkout replay: idempotency key already bound to order %d", existing.ID)
			return existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("idempotency lookup: %w", err)
		}
	}

	view, err := s.cart.GetCart(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}

	order := buildOrder(view, info)
	if err := s.orders.SaveOrder(ctx, order, idempotencyKey); err != nil {
		// Two checkouts raced on the same key; the other one won. Replay it.
		if errors.Is(err, ErrDuplicateCheckout) && idempotencyKey != "" {
			if existing, qerr := s.orders.OrderByIdempotencyKey(ctx, idempotencyKey); qerr == nil {
				return existing, nil
			}
		}
		// The cart is untouched here: the shopper retries without re-adding
		// items.
		return nil, fmt.Errorf("persist order: %w", err)
	}

	// The order is durable from this point on; clearing the cart afterwards
	// can only lose the cart, never the order.
	s.cart.ClearCart(sessionKey)
	log.Printf("order %s persisted with %d items, total %.2f", order.OrderNumber, len(order.Items), order.TotalAmount)
	return order, nil
}

// buildOrder freezes a priced cart view into an order snapshot. The copied
// names and prices are owned by the order from here on.
func buildOrder(view *models.CartView, info CustomerInfo) *models.Order {
	order := &models.Order{
		OrderNumber:  uuid.New().String(),
		CustomerName: info.Name,
		Address:      info.Address,
		Phone:        info.Phone,
		TotalAmount:  view.GrandTotal,
		TotalItems:   view.TotalItems,
		OrderDate:    time.Now().UTC(),
	}
	for _, line := range view.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.Price,
			Quantity:    line.Quantity,
			TotalPrice:  line.TotalPrice,
		})
	}
	return order
}
