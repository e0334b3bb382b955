package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quill/internal/middleware"

	"gorm.io/gorm"
)

// MigrationRecord is a row in the applied-migration ledger.
type MigrationRecord struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"size:255;uniqueIndex;not null"`
	ExecutedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the ledger table name.
func (MigrationRecord) TableName() string {
	return "_migrations"
}

const ensureLedgerSQL = `
CREATE TABLE IF NOT EXISTS _migrations (
	id SERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL UNIQUE,
	executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// sqlite lacks SERIAL and TIMESTAMPTZ; tests run against it.
const ensureLedgerSQLite = `
CREATE TABLE IF NOT EXISTS _migrations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(255) NOT NULL UNIQUE,
	executed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func ensureLedger(ctx context.Context, db *gorm.DB) error {
	stmt := ensureLedgerSQL
	if db.Dialector.Name() == "sqlite" {
		stmt = ensureLedgerSQLite
	}
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to ensure migration ledger: %w", err)
	}
	return nil
}

func appliedNames(ctx context.Context, db *gorm.DB) (map[string]bool, error) {
	var names []string
	if err := db.WithContext(ctx).Model(&MigrationRecord{}).Order("id ASC").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to read migration ledger: %w", err)
	}
	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

// RunMigrations ensures the ledger table exists and applies all pending
// registered migrations in version order. Each migration runs inside its
// own transaction together with its ledger insert; the first failure
// rolls that transaction back and aborts the whole run.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return RunMigrationSet(ctx, db, migrations)
}

// RunMigrationSet applies the given migrations; exposed so tests can run
// a dialect-appropriate set.
func RunMigrationSet(ctx context.Context, db *gorm.DB, set []Migration) error {
	if err := ensureLedger(ctx, db); err != nil {
		return err
	}

	applied, err := appliedNames(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range set {
		if applied[m.String()] {
			middleware.Logger.Debug("Migration already applied", slog.String("name", m.String()))
			continue
		}

		middleware.Logger.Info("Applying migration", slog.String("name", m.String()))
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, stmt := range splitStatements(m.UpScript) {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("failed to apply migration %s: %w", m.String(), err)
				}
			}
			if err := tx.Create(&MigrationRecord{Name: m.String()}).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.String(), err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// RollbackMigration reverts a specific migration by version number.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	applied, err := appliedNames(ctx, db)
	if err != nil {
		return err
	}
	if !applied[m.String()] {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	middleware.Logger.Info("Rolling back migration", slog.String("name", m.String()))
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range splitStatements(m.DownScript) {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to run rollback SQL for migration %s: %w", m.String(), err)
			}
		}
		if err := tx.Where("name = ?", m.String()).Delete(&MigrationRecord{}).Error; err != nil {
			return fmt.Errorf("failed to remove migration record %s: %w", m.String(), err)
		}
		return nil
	})
}

// PendingMigrations returns registered migrations missing from the ledger.
func PendingMigrations(ctx context.Context, db *gorm.DB) ([]Migration, error) {
	if err := ensureLedger(ctx, db); err != nil {
		return nil, err
	}
	applied, err := appliedNames(ctx, db)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range migrations {
		if !applied[m.String()] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// splitStatements breaks a migration script into individual statements.
// Some drivers reject multi-statement Exec calls.
func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
