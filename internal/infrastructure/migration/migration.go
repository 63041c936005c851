// Package migration brings the database schema up to date.
package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/models"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// Manager runs one migration strategy.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy by name. Unknown names fall back to goose.
func NewManager(strategyName string, log logger.Interface) *Manager {
	var strategy Strategy
	switch strings.ToLower(strings.TrimSpace(strategyName)) {
	case StrategyGormAutoMigrate:
		strategy = NewGormAutoMigrateStrategy(log)
	case StrategyGolangMigrate:
		strategy = NewGolangMigrateStrategy(log)
	default:
		strategy = NewGooseStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}

// Up migrates to the latest schema.
func (m *Manager) Up(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())
	if err := m.strategy.Migrate(db, models.All()...); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.Name(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}
	m.logger.Infow("database migration completed", "strategy", m.strategy.Name())
	return nil
}

// Down rolls back steps migrations.
func (m *Manager) Down(db *gorm.DB, steps int) error {
	r, ok := m.strategy.(Reverter)
	if !ok {
		return fmt.Errorf("strategy %s does not support rollback", m.strategy.Name())
	}
	if steps <= 0 {
		steps = 1
	}
	return r.MigrateDown(db, steps)
}

// Version reports the applied schema version.
func (m *Manager) Version(db *gorm.DB) (int64, bool, error) {
	v, ok := m.strategy.(Versioner)
	if !ok {
		return 0, false, fmt.Errorf("strategy %s does not track versions", m.strategy.Name())
	}
	return v.Version(db)
}

// Create writes an empty script for the current strategy under dir and
// returns the created paths.
func (m *Manager) Create(dir, name string) ([]string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return nil, fmt.Errorf("migration name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scripts directory: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102150405")
	created := time.Now().UTC().Format(time.RFC3339)

	var files map[string]string
	switch m.strategy.Name() {
	case StrategyGolangMigrate:
		files = map[string]string{
			filepath.Join(dir, fmt.Sprintf("%s_%s.up.sql", stamp, name)):   fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n", name, created),
			filepath.Join(dir, fmt.Sprintf("%s_%s.down.sql", stamp, name)): fmt.Sprintf("-- Rollback: %s\n-- Created: %s\n\n", name, created),
		}
	case StrategyGoose:
		files = map[string]string{
			filepath.Join(dir, fmt.Sprintf("%s_%s.sql", stamp, name)): fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n-- +goose Up\n\n-- +goose Down\n", name, created),
		}
	default:
		return nil, fmt.Errorf("strategy %s has no scripts", m.strategy.Name())
	}

	paths := make([]string, 0, len(files))
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	m.logger.Infow("migration files created", "files", paths)
	return paths, nil
}
