package database

import (
	"context"
	"database/sql"
	"fmt"
)

// mysqlSchema creates the store tables on MySQL/InnoDB.  Foreign keys
// restrict deletes so that a customer with orders, or a product with
// order lines, cannot disappear from under them.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
	    category_id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(100) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS products (
	    product_id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(255) NOT NULL,
	    category_id BIGINT UNSIGNED NOT NULL,
	    price DECIMAL(10,2) NOT NULL,
	    stock INT NOT NULL DEFAULT 0,
	    CONSTRAINT chk_products_price CHECK (price >= 0),
	    CONSTRAINT chk_products_stock CHECK (stock >= 0),
	    FOREIGN KEY (category_id) REFERENCES categories(category_id) ON DELETE RESTRICT,
	    INDEX idx_products_category (category_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS customers (
	    customer_id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
	    first_name VARCHAR(100) NOT NULL,
	    last_name VARCHAR(100) NOT NULL,
	    email VARCHAR(255) NOT NULL,
	    password_hash VARCHAR(255) NOT NULL,
	    role VARCHAR(16) NOT NULL DEFAULT 'customer',
	    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    UNIQUE KEY uk_customers_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
	    order_id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
	    customer_id BIGINT UNSIGNED NOT NULL,
	    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    FOREIGN KEY (customer_id) REFERENCES customers(customer_id) ON DELETE RESTRICT,
	    INDEX idx_orders_customer (customer_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_items (
	    order_item_id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
	    order_id BIGINT UNSIGNED NOT NULL,
	    product_id BIGINT UNSIGNED NOT NULL,
	    quantity INT NOT NULL,
	    CONSTRAINT chk_order_items_quantity CHECK (quantity > 0),
	    FOREIGN KEY (order_id) REFERENCES orders(order_id) ON DELETE RESTRICT,
	    FOREIGN KEY (product_id) REFERENCES products(product_id) ON DELETE RESTRICT,
	    INDEX idx_order_items_order (order_id),
	    INDEX idx_order_items_product (product_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// sqliteSchema mirrors mysqlSchema for local development and tests.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
	    category_id INTEGER PRIMARY KEY AUTOINCREMENT,
	    name TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS products (
	    product_id INTEGER PRIMARY KEY AUTOINCREMENT,
	    name TEXT NOT NULL,
	    category_id INTEGER NOT NULL REFERENCES categories(category_id) ON DELETE RESTRICT,
	    price DECIMAL(10,2) NOT NULL CHECK (price >= 0),
	    stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
	    customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
	    first_name TEXT NOT NULL,
	    last_name TEXT NOT NULL,
	    email TEXT NOT NULL UNIQUE,
	    password_hash TEXT NOT NULL,
	    role TEXT NOT NULL DEFAULT 'customer',
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
	    order_id INTEGER PRIMARY KEY AUTOINCREMENT,
	    customer_id INTEGER NOT NULL REFERENCES customers(customer_id) ON DELETE RESTRICT,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS order_items (
	    order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
	    order_id INTEGER NOT NULL REFERENCES orders(order_id) ON DELETE RESTRICT,
	    product_id INTEGER NOT NULL REFERENCES products(product_id) ON DELETE RESTRICT,
	    quantity INTEGER NOT NULL CHECK (quantity > 0)
	)`,
}

// EnsureSchema creates any missing store tables.  It is safe to call on
// every start; existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	stmts := mysqlSchema
	if driver == "sqlite3" {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
