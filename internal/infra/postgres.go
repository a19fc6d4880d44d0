package infra

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"grocart/internal/models/db_models"
)

func InitPostgresql() *gorm.DB {

	dsn := os.Getenv("DATABASE_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database")
	}

	sqlDB, err := db.DB()
	if err == nil {
		maxConns := 10
		if v := os.Getenv("DB_POOL_MAX"); v != "" {
			if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 {
				maxConns = n
			}
		}
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns / 2)
		sqlDB.SetConnMaxIdleTime(30 * time.Second)
	}

	return db
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("PostgreSQL database connection closed successfully")
	}
}

// Migrate creates the schema. AutoMigrate covers tables and plain indexes;
// the open-cart partial unique index and the money/stock CHECK constraints
// need raw SQL.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&db_models.User{},
		&db_models.Product{},
		&db_models.Address{},
		&db_models.Cart{},
		&db_models.CartItem{},
		&db_models.Order{},
		&db_models.OrderItem{},
		&db_models.Transaction{},
		&db_models.Contact{},
	); err != nil {
		return err
	}

	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_carts_user_open ON carts(user_id) WHERE status = 'open' AND deleted_at IS NULL`,
		`ALTER TABLE products ADD CONSTRAINT chk_products_price CHECK (price_cents >= 0) NOT VALID`,
		`ALTER TABLE products ADD CONSTRAINT chk_products_stock CHECK (stock >= 0) NOT VALID`,
		`ALTER TABLE cart_items ADD CONSTRAINT chk_cart_items_quantity CHECK (quantity > 0) NOT VALID`,
		`ALTER TABLE orders ADD CONSTRAINT chk_orders_total CHECK (total_cents >= 0) NOT VALID`,
		`ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity CHECK (quantity > 0) NOT VALID`,
		`ALTER TABLE order_items ADD CONSTRAINT chk_order_items_price CHECK (price_cents >= 0) NOT VALID`,
		`ALTER TABLE transactions ADD CONSTRAINT chk_transactions_amount CHECK (amount_cents >= 0) NOT VALID`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			// Re-running migrations hits "already exists" on the constraints.
			log.Printf("migrate: %v", err)
		}
	}

	return nil
}
