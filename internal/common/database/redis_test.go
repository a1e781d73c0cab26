package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcript-extractor/internal/common/config"
)

func TestRedisClient_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	_, err := client.Get(ctx, "annotation:missing")
	assert.True(t, errors.Is(err, ErrCacheMiss))

	require.NoError(t, client.Set(ctx, "annotation:abc", `{"query":"hi"}`, time.Minute))

	val, err := client.Get(ctx, "annotation:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"query":"hi"}`, val)
	assert.Equal(t, time.Minute, mr.TTL("annotation:abc"))

	mr.FastForward(2 * time.Minute)
	_, err = client.Get(ctx, "annotation:abc")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestRedisClient_Errors(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	client := NewRedisFromCmdable(rdb)
	ctx := context.Background()

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	err := client.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")

	mock.ExpectGet("k").SetErr(errors.New("timeout"))
	_, err = client.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCacheMiss))

	assert.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
