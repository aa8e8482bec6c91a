package database

import (
	"context"
	"database/sql"

	"github.com/Gulverda/C-Final-Web-Store/models"
)

// ProductByID looks up a single catalog row. A missing product surfaces as
// sql.ErrNoRows, which the cart layer treats as "not in the catalog".
func (db *DB) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	query := `SELECT id, name, price, description, image_url, created_at, updated_at
	          FROM products WHERE id = $1`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns the whole catalog ordered by id.
func (db *DB) ListProducts(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, price, description, image_url, created_at, updated_at
	          FROM products ORDER BY id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a catalog row and fills in its assigned id.
func (db *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products (name, price, description, image_url)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	return db.QueryRowContext(ctx, query, p.Name, p.Price, p.Description, p.ImageURL).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// UpdateProduct replaces the mutable fields of a catalog row.
func (db *DB) UpdateProduct(ctx context.Context, p *models.Product) error {
	query := `UPDATE products
	          SET name = $2, price = $3, description = $4, image_url = $5, updated_at = now()
	          WHERE id = $1`
	result, err := db.ExecContext(ctx, query, p.ID, p.Name, p.Price, p.Description, p.ImageURL)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteProduct removes a catalog row. Existing orders keep their frozen
// copy of the product; open carts drop the line on next read.
func (db *DB) DeleteProduct(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
