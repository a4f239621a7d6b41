package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

func TestRootCmd(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "watch-events"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestRunMigrate(t *testing.T) {
	t.Run("非database后端拒绝", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}}
		err := runMigrate(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("sqlite建表", func(t *testing.T) {
		cfg := &config.Config{
			Storage: config.StorageConfig{Backend: config.BackendDatabase},
			Database: config.DatabaseConfig{
				Driver:     config.DriverSQLite,
				SQLitePath: filepath.Join(t.TempDir(), "library.db"),
			},
		}
		require.NoError(t, runMigrate(context.Background(), cfg, zap.NewNop()))
	})
}

func TestInitializeApp(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		Storage: config.StorageConfig{Backend: config.BackendMemory},
		Lock:    config.LockConfig{Backend: config.LockLocal},
	}

	app, cleanup, err := InitializeApp(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	app.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":0`)
}
