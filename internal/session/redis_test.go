package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/buyer-agent/internal/negotiation"
)

// TestRedisStore_Integration requires a running Redis on localhost:6379.
func TestRedisStore_Integration(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skip("Skipping Redis integration test: redis not available")
	}

	prefix := "buyer-agent-test:" + t.Name() + ":"
	s := NewRedisStoreWithClient(client, prefix, time.Minute)
	t.Cleanup(func() {
		s.Delete(ctx, "r1")
		s.Close()
	})

	_, err := s.Load(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)

	m := NewManager(s, WithChooser(negotiation.FixedChooser(0)))
	for i := 0; i < 2; i++ {
		_, err := m.Negotiate(ctx, Request{SessionID: "r1", Product: "laptop", Budget: 1000, Message: "900"})
		require.NoError(t, err)
	}

	rec, err := s.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Rounds)
	assert.Len(t, rec.Trace, 4)

	ttl, err := client.TTL(ctx, prefix+"session:r1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	list, err := s.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Trace)

	existed, err := s.Delete(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestDecodeRecord(t *testing.T) {
	r, err := decodeRecord([]byte(`{"id":"x","product":"p","budget":10,"rounds":2,"trace":[{"seq":0,"round":1,"role":"seller","text":"hi"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "x", r.ID)
	assert.Equal(t, int64(10), r.Budget)
	assert.Equal(t, 2, r.Rounds)
	require.Len(t, r.Trace, 1)

	_, err = decodeRecord([]byte(`{`))
	assert.Error(t, err)
}
