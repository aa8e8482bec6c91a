package models

import (
	"time"
)

// Order is the frozen snapshot of a completed checkout. Line items copy the
// product name and price at purchase time, so later catalog edits never
// change an existing order.
type Order struct {
	ID           int64       `json:"id" db:"id"`
	OrderNumber  string      `json:"order_number" db:"order_number"`
	CustomerName string      `json:"customer_name" db:"customer_name"`
	Address      string      `json:"address" db:"address"`
	Phone        string      `json:"phone" db:"phone"`
	TotalAmount  float64     `json:"total_amount" db:"total_amount"`
	TotalItems   int         `json:"total_items" db:"total_items"`
	OrderDate    time.Time   `json:"order_date" db:"order_date"`
	Items        []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID          int64   `json:"id" db:"id"`
	OrderID     int64   `json:"order_id" db:"order_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Quantity    int     `json:"quantity" db:"quantity"`
	TotalPrice  float64 `json:"total_price" db:"total_price"`
}

func (Order) TableName() string {
	return "orders"
}

func (Order) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_number VARCHAR(50) NOT NULL UNIQUE,
		customer_name VARCHAR(100) NOT NULL,
		address VARCHAR(500) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		total_amount NUMERIC(12,2) NOT NULL,
		total_items INTEGER NOT NULL,
		order_date TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (OrderItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL,
		product_name VARCHAR(100) NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		total_price NUMERIC(12,2) NOT NULL
	);`
}

// OrderIdempotency maps a caller-supplied Idempotency-Key to the order it
// produced, so a retried checkout replays the stored order instead of
// creating a second one.
type OrderIdempotency struct {
	Key     string `json:"idempotency_key" db:"idempotency_key"`
	OrderID int64  `json:"order_id" db:"order_id"`
}

func (OrderIdempotency) TableName() string {
	return "order_idempotency"
}

func (OrderIdempotency) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS order_idempotency (
		idempotency_key VARCHAR(100) PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
