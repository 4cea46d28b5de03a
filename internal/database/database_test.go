package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestConfig_IsSQL(t *testing.T) {
	assert.True(t, Config{Driver: DriverPostgres}.IsSQL())
	assert.True(t, Config{Driver: DriverMySQL}.IsSQL())
	assert.False(t, Config{Driver: DriverMongoDB}.IsSQL())
	assert.False(t, Config{Driver: "sqlite"}.IsSQL())
}

func TestConnectMongo_InvalidURI(t *testing.T) {
	client, db, err := ConnectMongo(context.Background(), Config{
		Driver:           DriverMongoDB,
		ConnectionString: "not-a-mongodb-uri",
		DatabaseName:     "app",
	})

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to open mongodb client")
}

func TestMongoPinger_NilClient(t *testing.T) {
	pinger := NewMongoPinger(nil)

	err := pinger.PingContext(context.Background())
	assert.EqualError(t, err, "mongodb client is not initialized")
}
