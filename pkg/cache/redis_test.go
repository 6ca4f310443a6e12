package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheSetGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "astro")
	ctx := context.Background()

	mock.ExpectSet("astro:k", []byte(`{"name":"asc","value":15}`), time.Minute).SetVal("OK")
	require.NoError(t, c.Set(ctx, "k", sample{Name: "asc", Value: 15}, time.Minute))

	mock.ExpectGet("astro:k").SetVal(`{"name":"asc","value":15}`)
	got, err := GetTyped[sample](ctx, c, "k")
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "asc", Value: 15}, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "astro")

	mock.ExpectGet("astro:missing").RedisNil()
	var s sample
	assert.ErrorIs(t, c.Get(context.Background(), "missing", &s), ErrCacheMiss)

	mock.ExpectGet("astro:broken").SetErr(errors.New("connection reset"))
	err := c.Get(context.Background(), "broken", &s)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheDeleteExists(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "astro")
	ctx := context.Background()

	mock.ExpectExists("astro:a", "astro:b").SetVal(1)
	ok, err := c.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectUnlink("astro:a").SetVal(1)
	require.NoError(t, c.Delete(ctx, "a"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCachePing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "")

	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, c.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("down"))
	l := NewLayeredCache(c)
	defer l.memCache.Close()
	assert.Error(t, l.Ping(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisCacheFailsWithoutServer(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestRedisConfigDefaults(t *testing.T) {
	cfg := RedisConfig{PoolSize: 4, MinIdleConns: 9}.withDefaults()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, 2, cfg.MinIdleConns)
	assert.Equal(t, 4*time.Second, cfg.PoolTimeout)
}
