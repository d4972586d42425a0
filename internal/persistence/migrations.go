package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Migration is a named, idempotent schema step.
type Migration struct {
	Name string
	Up   func(ctx context.Context) error
}

// RunMigrations applies the migrations in order and stops at the first failure.
func RunMigrations(ctx context.Context, migrations []Migration, logger *zap.Logger) error {
	if len(migrations) == 0 {
		logger.Warn("no migrations registered; skipping")
		return nil
	}

	for _, m := range migrations {
		logger.Info("applying migration", zap.String("name", m.Name))
		if err := m.Up(ctx); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(migrations)))
	return nil
}
