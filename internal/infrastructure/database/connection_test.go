package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/infrastructure/config"
)

func TestNewTestConnection_MigratesPlanTable(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.True(t, db.Migrator().HasTable("dispatch_plans"))
}

func TestNewConnection_CreatesSqliteDirectory(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "nested", "plans.db")

	// Act
	db, err := NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: path})

	// Assert
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, AutoMigrate(db))
	assert.FileExists(t, path)
}

func TestNewConnection_RejectsUnknownType(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Type: "mysql"})

	assert.ErrorContains(t, err, "unsupported database type: mysql")
}
