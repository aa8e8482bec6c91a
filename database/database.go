package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/Gulverda/C-Final-Web-Store/models"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Enable pgcrypto extension
	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	// Define the order of table creation (respecting foreign key dependencies)
	tables := []interface{}{
		models.Product{},
		models.User{},
		models.Order{},
		models.OrderItem{},
		models.OrderIdempotency{},
	}

	for _, model := range tables {
		if tableModel, ok := model.(interface {
			TableName() string
			CreateTableSQL() string
		}); ok {
			tableName := tableModel.TableName()
			createSQL := tableModel.CreateTableSQL()

			log.Printf("Creating table: %s", tableName)
			if _, err := db.Exec(createSQL); err != nil {
				return fmt.Errorf("failed to create table %s: %w", tableName, err)
			}
		}
	}

	if err := db.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Println("All tables created successfully!")
	return nil
}

// seedProducts inserts the demo catalog on first start. Re-runs are no-ops.
func (db *DB) seedProducts() error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []struct {
		name        string
		price       float64
		description string
		imageURL    string
	}{
		{"Wireless Mouse", 29.99, "Ergonomic wireless mouse with high precision sensor.", "https://images.unsplash.com/photo-1527814050087-3793815479db?w=400"},
		{"Mechanical Keyboard", 89.99, "RGB backlit mechanical keyboard with cherry MX switches.", "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=400"},
		{"USB-C Hub", 45.99, "Multi-port USB-C hub with HDMI and SD card support.", "https://images.unsplash.com/photo-1625842268584-8f3296236761?w=400"},
		{"Laptop Stand", 34.99, "Adjustable aluminum laptop stand for better ergonomics.", "https://images.unsplash.com/photo-1593541937377-c7d0e0f8bf9a?w=400"},
		{"Wireless Headphones", 129.99, "Noise-cancelling wireless headphones with 30-hour battery.", "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400"},
	}

	for _, p := range seed {
		_, err := db.Exec(
			`INSERT INTO products (name, price, description, image_url) VALUES ($1, $2, $3, $4)`,
			p.name, p.price, p.description, p.imageURL,
		)
		if err != nil {
			return err
		}
	}

	log.Printf("Seeded %d demo products", len(seed))
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
