// Package migrations схема БД сервиса, встроенная в бинарник
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationsTable таблица, в которой golang-migrate хранит версию схемы
const MigrationsTable = "bookings_schema_migrations"

//go:embed sql/*.sql
var files embed.FS

var (
	// ErrSource возвращается, если не удалось прочитать встроенные миграции
	ErrSource = errors.New("migrations: failed to open embedded source")

	// ErrApply возвращается, если миграции не применились
	ErrApply = errors.New("migrations: failed to apply")
)

// Up применяет все непримененные миграции. Отсутствие изменений ошибкой не считается.
func Up(db *sql.DB) error {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSource, err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: MigrationsTable,
	})
	if err != nil {
		return fmt.Errorf("%w: create driver: %v", ErrApply, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("%w: create migrator: %v", ErrApply, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %v", ErrApply, err)
	}

	return nil
}
