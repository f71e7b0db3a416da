//go:build integration

package redis_test

import (
	"context"
	"strings"
	"testing"
	"time"

	inboxredis "github.com/marcelsud/botgate/inbox/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer holds the Redis testcontainer and connection details
type RedisContainer struct {
	Container *testcontainersredis.RedisContainer
	Addr      string
}

// SetupRedisContainer creates and starts a Redis testcontainer
func SetupRedisContainer(t *testing.T, ctx context.Context) (*RedisContainer, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx,
		"redis:7-alpine",
		testcontainersredis.WithLogLevel(testcontainersredis.LogLevelVerbose),
	)
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")
	addr = strings.TrimPrefix(addr, "redis://")

	time.Sleep(1 * time.Second)

	cleanup := func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return &RedisContainer{Container: redisContainer, Addr: addr}, cleanup
}

// CreateTestStream creates a stream inbox connected to the test container
func CreateTestStream(t *testing.T, addr, key string, maxLen int64) *inboxredis.Stream {
	t.Helper()

	stream, err := inboxredis.NewStream(addr, "", 0, key, maxLen)
	require.NoError(t, err, "failed to create Redis stream")

	return stream
}

// ReadGroup reads count entries through a consumer group, the way a bot worker would
func ReadGroup(t *testing.T, addr, key, group string, count int64) []goredis.XMessage {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.XGroupCreateMkStream(ctx, key, group, "0").Err())

	streams, err := client.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    group,
		Consumer: "worker-1",
		Streams:  []string{key, ">"},
		Count:    count,
		Block:    time.Second,
	}).Result()
	require.NoError(t, err)
	require.Len(t, streams, 1)

	return streams[0].Messages
}
