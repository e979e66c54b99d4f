package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceListEmpty(t *testing.T) {
	b, _ := newTestBot(t)
	assert.Equal(t, Reply{Content: "No users are being auto-reacted to"}, b.svc.List(ownerID))
}

func TestServiceListResolvesNames(t *testing.T) {
	b, _ := newTestBot(t)
	require.NoError(t, b.reg.Set("111", "🔥", ownerID))

	r := b.svc.List(ownerID)
	assert.Contains(t, r.Content, "Bob: 🔥")
	assert.Equal(t, "Watched users:\n- Bob: 🔥\n", r.Content)
	assert.False(t, r.Ephemeral)
}

func TestServiceListSkipsUnresolvable(t *testing.T) {
	b, _ := newTestBot(t)
	require.NoError(t, b.reg.Set("111", "🔥", ownerID))
	require.NoError(t, b.reg.Set("555", "👀", ownerID))
	require.NoError(t, b.reg.Set("222", "✨", ownerID))

	r := b.svc.List(ownerID)
	assert.Equal(t, "Watched users:\n- Bob: 🔥\n- Alice: ✨\n", r.Content)

	// запись остаётся в реестре
	_, ok := b.reg.Watched("555")
	assert.True(t, ok)
	assert.Equal(t, 3, b.reg.Len())
}

func TestServiceAutoReact(t *testing.T) {
	b, _ := newTestBot(t)

	r, err := b.svc.AutoReact(ownerID, Target{ID: "111", Name: "Bob"}, "🔥")
	require.NoError(t, err)
	assert.Equal(t, "Now auto-reacting to Bob with 🔥", r.Content)

	e, ok := b.reg.Watched("111")
	require.True(t, ok)
	assert.Equal(t, "🔥", e.Emoji)
	assert.Equal(t, ownerID, e.SetBy)
}

func TestServiceStopAutoReact(t *testing.T) {
	b, _ := newTestBot(t)
	require.NoError(t, b.reg.Set("111", "🔥", ownerID))

	r, err := b.svc.StopAutoReact(ownerID, Target{ID: "111", Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Stopped auto-reacting to Bob", r.Content)

	r, err = b.svc.StopAutoReact(ownerID, Target{ID: "111", Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Bob is not being auto-reacted to", r.Content)
	assert.False(t, r.Ephemeral)
}

func TestServiceDeniesNonOwner(t *testing.T) {
	b, _ := newTestBot(t)
	require.NoError(t, b.reg.Set("222", "✨", ownerID))
	before := b.reg.List()

	r, err := b.svc.AutoReact(strangerID, Target{ID: "111", Name: "Bob"}, "🔥")
	require.NoError(t, err)
	assert.Equal(t, b.svc.Denied(), r)

	r, err = b.svc.StopAutoReact(strangerID, Target{ID: "222", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, b.svc.Denied(), r)

	assert.Equal(t, b.svc.Denied(), b.svc.List(strangerID))
	assert.Equal(t, before, b.reg.List())
}

func TestServiceEmptyCallerIsNotOwner(t *testing.T) {
	b, _ := newTestBot(t)
	assert.False(t, b.svc.IsOwner(""))
	assert.True(t, b.svc.IsOwner(ownerID))
}

func TestServicePingAndUptime(t *testing.T) {
	b, gw := newTestBot(t)
	gw.latency = 41*time.Millisecond + 600*time.Microsecond

	assert.Equal(t, "Pong! 42ms", b.svc.Ping().Content)
	assert.Equal(t, "ALYA has been running for: 1m 5s", b.svc.Uptime().Content)

	// доступны любому
	assert.False(t, b.svc.Ping().Ephemeral)
}
