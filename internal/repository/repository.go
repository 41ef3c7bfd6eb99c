package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/dhnaturally/internal/storage"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/lib/pq"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrations embed.FS

// Repository implements storage.Storage on top of database/sql. The same
// queries run on SQLite (modernc.org/sqlite) and Postgres (lib/pq).
type Repository struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

var _ storage.Storage = (*Repository)(nil)

// NewRepository opens and pings the database. driver is DriverSQLite or
// DriverPostgres; dsn is passed to sql.Open unchanged.
func NewRepository(driver, dsn string) (*Repository, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		// every connection to ":memory:" is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	return &Repository{db: db, driver: driver, now: now}, nil
}

// now truncates to microseconds so values survive a Postgres round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// RunMigrations applies the embedded schema migrations for the driver.
func (r *Repository) RunMigrations() error {
	var (
		driver database.Driver
		err    error
	)
	switch r.driver {
	case DriverSQLite:
		driver, err = sqlite.WithInstance(r.db, &sqlite.Config{})
	case DriverPostgres:
		driver, err = postgres.WithInstance(r.db, &postgres.Config{
			MigrationsTable: "storefront_schema_migrations",
		})
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations/"+r.driver)
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, r.driver, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func newID() string {
	return uuid.New().String()
}

// isUniqueViolation reports whether err is a unique constraint failure on
// either backend.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlitedrv.Error
	if errors.As(err, &liteErr) {
		// the low byte of an extended result code is the primary code
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}
