package redkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowedToByStatus(t *testing.T) {
	monitors := NewMonitorRegistry()
	c := NewClientFields("127.0.0.1:1", monitors)

	assert.True(t, c.IsAllowedTo("get"), "executor should be allowed to run get")

	c.Subscribe("news")
	require.Equal(t, StatusSubscriber, c.Status())
	assert.False(t, c.IsAllowedTo("get"), "subscriber must not be allowed to run get")
	assert.True(t, c.IsAllowedTo("unsubscribe"), "subscriber must be allowed to unsubscribe")

	c.Kill()
	assert.False(t, c.IsAllowedTo("ping"), "dead client must not be allowed to run anything")
}

func TestSubscribeUnsubscribeSymmetry(t *testing.T) {
	monitors := NewMonitorRegistry()
	c := NewClientFields("127.0.0.1:1", monitors)

	reply, err := runSubscribe([]string{"subscribe", "a", "b"}, c, c)
	require.Nil(t, err)
	assert.Equal(t, 2, c.SubscriptionCount())
	assert.NotEmpty(t, reply)

	_, err = runUnsubscribe([]string{"unsubscribe"}, c, c)
	require.Nil(t, err)
	assert.Equal(t, 0, c.SubscriptionCount())
	assert.Equal(t, StatusExecutor, c.Status())
}

// TestSubscribeRegistrySlotPairsWithInline drives both Slots of
// subscribe's route the way the dispatcher would: the inline session
// side first, then the registry side in the server executor's map.
func TestSubscribeRegistrySlotPairsWithInline(t *testing.T) {
	attrs := newTestServerAttrs()
	a := NewClientFields("a", attrs.monitors)
	b := NewClientFields("b", attrs.monitors)

	for _, c := range []*ClientFields{a, b} {
		_, err := runSubscribe([]string{"subscribe", "room"}, c, c)
		require.Nil(t, err)
		_, err = runSubscribeRegistry([]string{"subscribe", "room"}, attrs, c)
		require.Nil(t, err)
	}

	delivered := attrs.pubsub.Publish("room", "hello")
	require.Equal(t, 2, delivered)

	select {
	case msg := <-a.PushChannel():
		assert.NotEmpty(t, msg)
	default:
		t.Error("expected a message queued for subscriber a")
	}

	_, err := runUnsubscribeRegistry([]string{"unsubscribe"}, attrs, a)
	require.Nil(t, err)
	assert.Equal(t, 1, attrs.pubsub.Publish("room", "again"))
}

func TestPublishToUnknownChannelDeliversZero(t *testing.T) {
	pubsub := NewPubSubRegistry()
	assert.Equal(t, 0, pubsub.Publish("nobody-here", "x"))
}

func TestKillHookFiresOnce(t *testing.T) {
	c := NewClientFields("127.0.0.1:1", NewMonitorRegistry())
	fired := 0
	c.SetKillHook(func() { fired++ })
	c.Kill()
	c.Kill()
	assert.Equal(t, 1, fired)
	assert.True(t, c.IsDead())
}

func TestNameRoundTrip(t *testing.T) {
	c := NewClientFields("127.0.0.1:1", NewMonitorRegistry())
	assert.Empty(t, c.Name())
	c.SetName("worker-1")
	assert.Equal(t, "worker-1", c.Name())
}
