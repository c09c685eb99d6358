package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	appErr "seminar-reminder/internal/errors"
)

const schemaFile = "db/schema.sql"

// NewPool opens a small pool; a pass issues at most one ledger statement per seminar
// plus a few for status and counts.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, appErr.NewPersistence("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, appErr.NewPersistence("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema applies db/schema.sql, looked up from basePath upwards. Every
// statement is IF NOT EXISTS.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, basePath string) error {
	schemaPath, err := FindSchema(basePath)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := pool.Exec(ctx, string(content)); err != nil {
		return appErr.NewPersistence("apply schema: %w", err)
	}
	return nil
}

func FindSchema(basePath string) (string, error) {
	dir, err := filepath.Abs(basePath)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, filepath.FromSlash(schemaFile))
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found above %s", schemaFile, basePath)
		}
		dir = parent
	}
}
