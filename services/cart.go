package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Gulverda/C-Final-Web-Store/models"
)

// Catalog is the read-only product lookup the cart depends on. A missing
// product is reported with an error satisfying errors.Is(err, sql.ErrNoRows).
type Catalog interface {
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartService joins the in-memory cart store with the catalog: mutations
// validate the product against the catalog first, reads re-price every line
// from the current catalog row. Prices are never cached in the cart.
type CartService struct {
	store   *CartStore
	catalog Catalog
}

func NewCartService(store *CartStore, catalog Catalog) *CartService {
	return &CartService{store: store, catalog: catalog}
}

// AddItem adds quantity of a product to the session's cart and returns the
// resulting priced line. The catalog lookup happens before any cart lock is
// taken, so a slow catalog never serializes unrelated sessions.
func (s *CartService) AddItem(ctx context.Context, sessionKey string, productID int64, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.catalog.ProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}

	total, err := s.store.Add(sessionKey, productID, quantity)
	if err != nil {
		return nil, err
	}
	return pricedLine(product, total), nil
}

// SetQuantity replaces the stored quantity of an existing line item and
// returns the re-priced line.
func (s *CartService) SetQuantity(ctx context.Context, sessionKey string, productID int64, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.catalog.ProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}

	if err := s.store.Set(sessionKey, productID, quantity); err != nil {
		return nil, err
	}
	return pricedLine(product, quantity), nil
}

// RemoveItem deletes a line item; it reports whether an item was removed.
func (s *CartService) RemoveItem(sessionKey string, productID int64) bool {
	return s.store.Remove(sessionKey, productID)
}

// ClearCart removes the session's cart entirely.
func (s *CartService) ClearCart(sessionKey string) {
	s.store.Clear(sessionKey)
}

// GetCart computes a fresh priced view of the session's cart. Lines whose
// product no longer exists in the catalog are dropped silently; the cart is
// eventually consistent with catalog edits, never stale.
func (s *CartService) GetCart(ctx context.Context, sessionKey string) (*models.CartView, error) {
	quantities := s.store.Quantities(sessionKey)

	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	view := &models.CartView{Items: []models.CartLine{}}
	for _, id := range ids {
		product, err := s.catalog.ProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Catalog drift: the product was deleted after it was added
				// to the cart. Drop the line, not the request.
				continue
			}
			return nil, fmt.Errorf("catalog lookup: %w", err)
		}
		line := pricedLine(product, quantities[id])
		view.Items = append(view.Items, *line)
		view.GrandTotal += line.TotalPrice
		view.TotalItems += line.Quantity
	}
	return view, nil
}

func pricedLine(product *models.Product, quantity int) *models.CartLine {
	return &models.CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
		Quantity:    quantity,
		TotalPrice:  product.Price * float64(quantity),
		ImageURL:    product.ImageURL,
	}
}
