package redisstream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestPublisherAppendsToStream(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	winner := domain.ChoiceID(2)

	publisher := NewPublisher(client, WithStream("test:events"), WithMaxLen(100))
	event := domain.NewEventEnvelope(domain.PollEnded{PollID: 12, Winner: &winner}, "req-9", time.Now())
	publisher.Publish(ctx, event)

	entries, err := client.XRange(ctx, "test:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, "PollEnded", values["name"])
	assert.Equal(t, "12", values["poll_id"])
	assert.Equal(t, event.ID.String(), values["id"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &decoded))
	assert.Equal(t, "req-9", decoded["request_id"])
	assert.Equal(t, float64(2), decoded["payload"].(map[string]any)["winner"])
}

func TestPublisherSwallowsErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	publisher := NewPublisher(client)
	assert.NotPanics(t, func() {
		publisher.Publish(context.Background(), domain.NewEventEnvelope(domain.PollStarted{PollID: 1}, "", time.Now()))
	})
}
