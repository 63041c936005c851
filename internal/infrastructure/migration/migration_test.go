package migration

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/models"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(StrategyGoose, logger.NewNop())

	require.NoError(t, m.Up(db))
	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	v, dirty, err := m.Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.False(t, dirty)

	// Running again is a no-op.
	require.NoError(t, m.Up(db))

	require.NoError(t, m.Down(db, 1))
	assert.False(t, db.Migrator().HasTable(&models.TicketModel{}))
}

func TestGormAutoMigrateStrategy(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(StrategyGormAutoMigrate, logger.NewNop())

	require.NoError(t, m.Up(db))
	assert.True(t, db.Migrator().HasTable(&models.ConfigurationModel{}))

	assert.Error(t, m.Down(db, 1))
	_, _, err := m.Version(db)
	assert.Error(t, err)
}

func TestGolangMigrateStrategy_RequiresMySQL(t *testing.T) {
	db := setupTestDB(t)
	m := NewManager(StrategyGolangMigrate, logger.NewNop())

	err := m.Up(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql only")
}

func TestNewManager_DefaultsToGoose(t *testing.T) {
	assert.Equal(t, StrategyGoose, NewManager("", logger.NewNop()).Strategy().Name())
	assert.Equal(t, StrategyGoose, NewManager("unknown", logger.NewNop()).Strategy().Name())
	assert.Equal(t, StrategyGolangMigrate, NewManager("Golang-Migrate", logger.NewNop()).Strategy().Name())
}

func TestManager_Create(t *testing.T) {
	dir := t.TempDir()

	paths, err := NewManager(StrategyGolangMigrate, logger.NewNop()).Create(dir, "add ticket index")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.Contains(t, p, "add_ticket_index")
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}

	paths, err = NewManager(StrategyGoose, logger.NewNop()).Create(dir, "seed")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "-- +goose Up"))

	_, err = NewManager(StrategyGormAutoMigrate, logger.NewNop()).Create(dir, "x")
	assert.Error(t, err)
}
