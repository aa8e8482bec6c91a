package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gulverda/C-Final-Web-Store/models"
)

// fakeOrderStore records persisted snapshots and honors the idempotency-key
// contract of the real store.
type fakeOrderStore struct {
	mu       sync.Mutex
	saved    []*models.Order
	byKey    map[string]*models.Order
	failSave error
	nextID   int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{byKey: make(map[string]*models.Order)}
}

func (f *fakeOrderStore) SaveOrder(_ context.Context, order *models.Order, idempotencyKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	if idempotencyKey != "" {
		if _, exists := f.byKey[idempotencyKey]; exists {
			return ErrDuplicateCheckout
		}
	}
	f.nextID++
	order.ID = f.nextID
	f.saved = append(f.saved, order)
	if idempotencyKey != "" {
		f.byKey[idempotencyKey] = order
	}
	return nil
}

func (f *fakeOrderStore) OrderByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.byKey[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return order, nil
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func validCustomer() CustomerInfo {
	return CustomerInfo{Name: "Jordan Smith", Address: "12 Main Street", Phone: "+995 598 123 456"}
}

func newCheckoutFixture(products ...models.Product) (*CheckoutService, *CartService, *fakeCatalog, *fakeOrderStore) {
	catalog := newFakeCatalog(products...)
	cart := NewCartService(NewCartStore(), catalog)
	orders := newFakeOrderStore()
	return NewCheckoutService(cart, orders), cart, catalog, orders
}

func TestCheckoutEmptyCart(t *testing.T) {
	checkout, _, _, orders := newCheckoutFixture()

	_, err := checkout.Checkout(context.Background(), "s", validCustomer(), "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, orders.count())
}

func TestCheckoutFullyDriftedCartIsEmpty(t *testing.T) {
	checkout, cart, catalog, orders := newCheckoutFixture(product(1, "Wireless Mouse", 29.99))

	_, err := cart.AddItem(context.Background(), "s", 1, 2)
	require.NoError(t, err)
	catalog.delete(1)

	_, err = checkout.Checkout(context.Background(), "s", validCustomer(), "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, orders.count())
}

func TestCheckoutSuccess(t *testing.T) {
	checkout, cart, _, orders := newCheckoutFixture(
		product(1, "Product A", 10.00),
		product(2, "Product B", 25.00),
	)

	_, err := cart.AddItem(context.Background(), "s", 1, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(context.Background(), "s", 2, 1)
	require.NoError(t, err)

	order, err := checkout.Checkout(context.Background(), "s", validCustomer(), "")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.InDelta(t, 45.00, order.TotalAmount, 0.001)
	assert.Equal(t, 3, order.TotalItems)
	assert.NotEmpty(t, order.OrderNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Product A", order.Items[0].ProductName)
	assert.InDelta(t, 20.00, order.Items[0].TotalPrice, 0.001)
	assert.Equal(t, "Product B", order.Items[1].ProductName)
	assert.InDelta(t, 25.00, order.Items[1].TotalPrice, 0.001)

	// The cart is gone after a successful checkout
	view, err := cart.GetCart(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	assert.Equal(t, 1, orders.count())
}

func TestCheckoutSnapshotSurvivesCatalogEdits(t *testing.T) {
	checkout, cart, catalog, _ := newCheckoutFixture(product(1, "Product A", 10.00))

	_, err := cart.AddItem(context.Background(), "s", 1, 1)
	require.NoError(t, err)

	order, err := checkout.Checkout(context.Background(), "s", validCustomer(), "")
	require.NoError(t, err)

	catalog.setPrice(1, 999.99)
	catalog.delete(1)

	// The frozen snapshot is independent of whatever the catalog does later
	assert.InDelta(t, 10.00, order.Items[0].UnitPrice, 0.001)
	assert.Equal(t, "Product A", order.Items[0].ProductName)
}

func TestCheckoutInvalidCustomerFields(t *testing.T) {
	checkout, cart, _, orders := newCheckoutFixture(product(1, "Product A", 10.00))

	_, err := cart.AddItem(context.Background(), "s", 1, 1)
	require.NoError(t, err)

	_, err = checkout.Checkout(context.Background(), "s", CustomerInfo{
		Name:    "",
		Address: "12 Main Street",
		Phone:   "not-a-phone",
	}, "")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.ElementsMatch(t, []string{"customerName", "phone"}, validation.Fields)
	assert.Zero(t, orders.count())

	// The cart is untouched by a rejected checkout
	view, err := cart.GetCart(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestCheckoutPersistFailureLeavesCartIntact(t *testing.T) {
	checkout, cart, _, orders := newCheckoutFixture(product(1, "Product A", 10.00))

	_, err := cart.AddItem(context.Background(), "s", 1, 2)
	require.NoError(t, err)

	orders.failSave = errors.New("connection refused")
	_, err = checkout.Checkout(context.Background(), "s", validCustomer(), "")
	require.Error(t, err)
	assert.Zero(t, orders.count())

	view, err := cart.GetCart(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	// Retry with the same inputs succeeds once the dependency recovers
	orders.failSave = nil
	order, err := checkout.Checkout(context.Background(), "s", validCustomer(), "")
	require.NoError(t, err)
	assert.InDelta(t, 20.00, order.TotalAmount, 0.001)
	assert.Equal(t, 1, orders.count())

	view, err = cart.GetCart(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCheckoutIdempotencyKeyReplays(t *testing.T) {
	checkout, cart, _, orders := newCheckoutFixture(product(1, "Product A", 10.00))

	_, err := cart.AddItem(context.Background(), "s", 1, 1)
	require.NoError(t, err)

	first, err := checkout.Checkout(context.Background(), "s", validCustomer(), "retry-key-1")
	require.NoError(t, err)

	// The client resubmits after a lost response. The cart is already
	// cleared, but the key replays the persisted order instead of failing
	// with an empty cart or minting a second order.
	second, err := checkout.Checkout(context.Background(), "s", validCustomer(), "retry-key-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, orders.count())
}

func TestCustomerInfoValidate(t *testing.T) {
	longName := make([]byte, 101)
	for i := range longName {
		longName[i] = 'a'
	}

	cases := []struct {
		name   string
		info   CustomerInfo
		fields []string
	}{
		{"all valid", validCustomer(), nil},
		{"missing everything", CustomerInfo{}, []string{"customerName", "address", "phone"}},
		{"name too long", CustomerInfo{Name: string(longName), Address: "x", Phone: "555-0100"}, []string{"customerName"}},
		{"letters in phone", CustomerInfo{Name: "a", Address: "b", Phone: "call me"}, []string{"phone"}},
		{"international phone ok", CustomerInfo{Name: "a", Address: "b", Phone: "+1 (555) 010-9999"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.info.Validate()
			if tc.fields == nil {
				assert.NoError(t, err)
				return
			}
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.ElementsMatch(t, tc.fields, validation.Fields)
		})
	}
}
