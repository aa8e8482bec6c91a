package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Gulverda/C-Final-Web-Store/models"
	"github.com/Gulverda/C-Final-Web-Store/services"
)

// SaveOrder persists an order snapshot, its line items and, when given, its
// idempotency key in one transaction. The snapshot is durable once this
// returns nil; on any error nothing is visible. A reused idempotency key
// comes back as services.ErrDuplicateCheckout.
func (db *DB) SaveOrder(ctx context.Context, order *models.Order, idempotencyKey string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `INSERT INTO orders (order_number, customer_name, address, phone, total_amount, total_items, order_date)
	               VALUES ($1, $2, $3, $4, $5, $6, $7)
	               RETURNING id`
	err = tx.QueryRowContext(ctx, orderQuery,
		order.OrderNumber, order.CustomerName, order.Address, order.Phone,
		order.TotalAmount, order.TotalItems, order.OrderDate,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, total_price)
	              VALUES ($1, $2, $3, $4, $5, $6)
	              RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRowContext(ctx, itemQuery,
			item.OrderID, item.ProductID, item.ProductName,
			item.UnitPrice, item.Quantity, item.TotalPrice,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if idempotencyKey != "" {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_idempotency (idempotency_key, order_id) VALUES ($1, $2)`,
			idempotencyKey, order.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return services.ErrDuplicateCheckout
			}
			return fmt.Errorf("insert idempotency key: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// OrderByIdempotencyKey returns the order previously persisted for key, or
// sql.ErrNoRows if the key was never used.
func (db *DB) OrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var orderID int64
	err := db.QueryRowContext(ctx,
		`SELECT order_id FROM order_idempotency WHERE idempotency_key = $1`, key,
	).Scan(&orderID)
	if err != nil {
		return nil, err
	}
	return db.OrderByID(ctx, orderID)
}

// OrderByID loads a full order snapshot including its line items.
func (db *DB) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	query := `SELECT id, order_number, customer_name, address, phone, total_amount, total_items, order_date
	          FROM orders WHERE id = $1`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.OrderNumber, &order.CustomerName, &order.Address,
		&order.Phone, &order.TotalAmount, &order.TotalItems, &order.OrderDate,
	)
	if err != nil {
		return nil, err
	}

	itemsQuery := `SELECT id, order_id, product_id, product_name, unit_price, quantity, total_price
	               FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.TotalPrice,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return &order, rows.Err()
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (code 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
