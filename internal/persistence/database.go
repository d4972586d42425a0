package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/spec-kit/hr-service/internal/config"
)

// Dialect captures the DDL differences between the supported databases.
// Statements use $N placeholders, which both drivers accept.
type Dialect struct {
	Name       string
	PrimaryKey string
	ForeignKey string
}

var (
	PostgresDialect = Dialect{Name: config.DriverPostgres, PrimaryKey: "BIGSERIAL PRIMARY KEY", ForeignKey: "BIGINT"}
	SQLiteDialect   = Dialect{Name: config.DriverSQLite, PrimaryKey: "INTEGER PRIMARY KEY", ForeignKey: "INTEGER"}
)

// DB wraps the shared connection handle used by every repository.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	var (
		driverName string
		dsn        = cfg.DSN
		dialect    Dialect
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		if dsn == "" {
			return nil, errors.New("DB_DSN is required for postgres")
		}
		driverName, dialect = "pgx", PostgresDialect
	case config.DriverSQLite, "":
		if dsn == "" {
			return nil, errors.New("DB_DSN is required for sqlite")
		}
		driverName, dialect = "sqlite", SQLiteDialect
		dsn = withForeignKeys(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	if dialect == SQLiteDialect {
		// a single connection keeps writes ordered and in-memory databases shared
		db.SetMaxOpenConns(1)
	} else if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.ConnMaxIdleSec > 0 {
		db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleSec) * time.Second)
	}
	if cfg.ConnMaxLifeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeSec) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	logger.Info("connected to database", zap.String("driver", dialect.Name))
	return &DB{DB: db, dialect: dialect}, nil
}

// NewDB wraps an already opened handle.
func NewDB(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, dialect: dialect}
}

// Dialect reports the SQL flavour of the connection.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Ping verifies database connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return errors.New("database not configured")
	}
	return d.PingContext(ctx)
}

// Close releases the connection pool.
func (d *DB) Close() {
	if d != nil && d.DB != nil {
		_ = d.DB.Close()
	}
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
