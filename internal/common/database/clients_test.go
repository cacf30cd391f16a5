package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costume-studio/internal/common/config"
)

func TestPostgresClient_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	c := &PostgresClient{db: db}
	defer c.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS generation_runs`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, c.EnsureSchema(context.Background()))

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS generation_runs`).WillReturnError(errors.New("permission denied"))
	err = c.EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "create generation_runs")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_PingWrapsError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	c := &PostgresClient{db: db}
	defer c.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = c.Ping(context.Background())
	assert.ErrorContains(t, err, "postgres ping")
}

func TestConfigurePool_DefaultsLifetime(t *testing.T) {
	db, err := sql.Open("postgres", "host=localhost dbname=unused sslmode=disable")
	require.NoError(t, err)
	defer db.Close()

	configurePool(db, config.PostgresConfig{MaxConnections: 4})
	assert.Equal(t, 4, db.Stats().MaxOpenConnections)
}

func TestPostgresClient_CloseNil(t *testing.T) {
	assert.NoError(t, (&PostgresClient{}).Close())
}

func TestNewRedis(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	c, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, defaultRedisPool, c.GetClient().Options().PoolSize)
	assert.Equal(t, 30*time.Second, c.GetClient().Options().WriteTimeout)

	mr.Close()
	assert.ErrorContains(t, c.Ping(context.Background()), "redis ping")
}
