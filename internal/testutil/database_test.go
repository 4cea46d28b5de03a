package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendDSN(t *testing.T) {
	tests := []struct {
		name    string
		backend sqlBackend
		env     string
		want    string
	}{
		{"postgres default", postgresBackend, "", postgresBackend.defaultDSN},
		{"postgres from env", postgresBackend, "postgres://ci:ci@db:5432/users", "postgres://ci:ci@db:5432/users"},
		{"mysql default", mysqlBackend, "", mysqlBackend.defaultDSN},
		{"mysql from env", mysqlBackend, "ci:ci@tcp(db:3306)/users", "ci:ci@tcp(db:3306)/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.backend.dsnEnv, tt.env)
			assert.Equal(t, tt.want, tt.backend.dsn())
		})
	}

	t.Run("exported accessors", func(t *testing.T) {
		t.Setenv("TEST_POSTGRES_DSN", "")
		t.Setenv("TEST_MYSQL_DSN", "")
		assert.Equal(t, postgresBackend.defaultDSN, GetPostgresTestDSN())
		assert.Equal(t, mysqlBackend.defaultDSN, GetMySQLTestDSN())
	})
}

func TestBackendFor(t *testing.T) {
	assert.Equal(t, "mysql", backendFor("mysql").driver)
	assert.Equal(t, "postgres", backendFor("postgres").driver)
}

func TestBackendUserID(t *testing.T) {
	id := uuid.Must(uuid.NewV7())

	t.Run("postgres keeps the uuid", func(t *testing.T) {
		value, err := postgresBackend.userID(id)
		require.NoError(t, err)
		assert.Equal(t, id, value)
	})

	t.Run("mysql uses 16 bytes", func(t *testing.T) {
		value, err := mysqlBackend.userID(id)
		require.NoError(t, err)

		raw, ok := value.([]byte)
		require.True(t, ok)
		parsed, err := uuid.FromBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

func TestGetMigrationsPath(t *testing.T) {
	for _, dir := range []string{postgresBackend.migrations, mysqlBackend.migrations} {
		t.Run(dir, func(t *testing.T) {
			path, err := getMigrationsPath(dir)
			require.NoError(t, err)
			assert.Equal(t, dir, filepath.Base(path))

			entries, err := os.ReadDir(path)
			require.NoError(t, err)
			assert.NotEmpty(t, entries)
		})
	}

	t.Run("unknown directory", func(t *testing.T) {
		path, err := getMigrationsPath("sqlite")
		assert.Error(t, err)
		assert.Empty(t, path)
	})

	t.Run("from a nested working directory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		inside := filepath.Join(wd, "testdata-nested")
		require.NoError(t, os.MkdirAll(inside, 0o750))
		t.Cleanup(func() { _ = os.RemoveAll(inside) })
		require.NoError(t, os.Chdir(inside))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		path, err := getMigrationsPath("postgresql")
		require.NoError(t, err)
		assert.Equal(t, "postgresql", filepath.Base(path))
	})
}
