package notifications

import (
	"context"
	"testing"

	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesOnlyRecipient(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Broadcast(1, "hello")

	select {
	case msg := <-a.Send:
		assert.Equal(t, "hello", string(msg))
	default:
		t.Fatal("recipient did not receive message")
	}
	assert.Empty(t, b.Send)

	_ = hub.Shutdown(context.Background())
}

func TestHub_PerUserLimit(t *testing.T) {
	hub := NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(5, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(5, nil)
	assert.ErrorIs(t, err, ErrUserFull)
	assert.Equal(t, maxConnsPerUser, hub.ConnectionCount(5))
}

func TestHub_UnregisterTwiceIsSafe(t *testing.T) {
	hub := NewHub()

	c, err := hub.Register(3, nil)
	require.NoError(t, err)

	hub.Unregister(c)
	hub.Unregister(c)
	assert.Zero(t, hub.ConnectionCount(3))

	// Broadcasting to a user with no sockets is a no-op.
	hub.Broadcast(3, "ignored")
}

func TestHub_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()

	c, err := hub.Register(4, nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer+5; i++ {
		c.TrySend([]byte("x"))
	}
	assert.Len(t, c.Send, sendBuffer)
}

func TestHub_StartWiringDeliversPublishedPayload(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)
	hub := NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, n))

	c, err := hub.Register(9, nil)
	require.NoError(t, err)

	require.NoError(t, n.PublishUser(context.Background(), 9, `{"type":"notification"}`))

	assert.Eventually(t, func() bool {
		return len(c.Send) == 1
	}, testEventuallyTimeout, testPollInterval)
}

func TestHub_ShutdownHandsCloseToWritePump(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(1, nil)
	require.NoError(t, err)
	a.TrySend([]byte("queued"))

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Zero(t, hub.ConnectionCount(1))

	// Buffered messages are still drained before the closed channel is seen.
	msg, ok := <-a.Send
	require.True(t, ok)
	assert.Equal(t, "queued", string(msg))

	goingAway := websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")
	for _, c := range []*Client{a, b} {
		_, ok := <-c.Send
		assert.False(t, ok)
		assert.Equal(t, goingAway, c.closeFrame)
	}

	// Late pump exits and publishes after shutdown must not panic.
	assert.NotPanics(t, func() {
		hub.Unregister(a)
		a.TrySend([]byte("late"))
		hub.Broadcast(1, "late")
	})
}
