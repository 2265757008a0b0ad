package infra

import (
	"fmt"

	"bookpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (the receipt sequence and the partial unique index).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema. Also used by the integration tests against
// a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Book{},
		&model.CashRegister{},
		&model.CashWithdrawal{},
		&model.Transaction{},
		&model.Payment{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Receipt numbers come from a dedicated sequence, claimed inside the
		// sale transaction. Gaps on rollback are fine; duplicates are not.
		`CREATE SEQUENCE IF NOT EXISTS transactions_receipt_seq`,

		// At most one open register session, enforced by the database itself.
		// The application checks first, but two stations racing to open must
		// not both succeed.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_cash_registers_open') THEN
		    CREATE UNIQUE INDEX uniq_cash_registers_open
		        ON cash_registers ((status))
		        WHERE status = 'open';
		  END IF;
		END $$`,

		// Stock can never go negative, even if a code path bypasses the
		// guarded update.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_books_quantity_nonneg') THEN
		    ALTER TABLE books ADD CONSTRAINT chk_books_quantity_nonneg CHECK (quantity >= 0);
		  END IF;
		END $$`,

		// The transaction list is always filtered by business date.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_transactions_date') THEN
		    CREATE INDEX idx_transactions_date ON transactions (transaction_date);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
