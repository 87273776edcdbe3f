package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docstate/pkg/config"
	"github.com/dmitrymomot/docstate/pkg/mongo"
)

func TestLoadConfig(t *testing.T) {
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	t.Setenv("MONGODB_URL", "mongodb://db:27017")
	t.Setenv("MONGODB_RETRY_INTERVAL", "250ms")

	cfg, err := mongo.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.ConnectionURL)
	assert.Equal(t, "docstate", cfg.Database)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryInterval)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.True(t, cfg.RetryWrites)
}

func TestNew_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mongo.New(ctx, mongo.Config{
		ConnectionURL:  "mongodb://127.0.0.1:1",
		ConnectTimeout: 50 * time.Millisecond,
		RetryAttempts:  3,
		RetryInterval:  time.Hour,
	})
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}
