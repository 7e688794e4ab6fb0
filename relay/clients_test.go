package relay

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func udpAddr(t *testing.T, s string) *net.UDPAddr {
	t.Helper()
	addr, err := net.ResolveUDPAddr("udp", s)
	require.NoError(t, err)
	return addr
}

func TestClientTableTouch(t *testing.T) {
	table := newClientTable()
	now := time.Now()

	a := udpAddr(t, "127.0.0.1:4001")
	assert.True(t, table.touch(a, now), "first datagram makes a new client")
	assert.False(t, table.touch(a, now.Add(time.Second)), "same peer is not new")
	assert.Equal(t, 1, table.len())

	b := udpAddr(t, "127.0.0.1:4002")
	assert.True(t, table.touch(b, now))
	assert.Equal(t, 2, table.len())
}

func TestClientTableExpiry(t *testing.T) {
	table := newClientTable()
	start := time.Now()
	idle := time.Minute

	a := udpAddr(t, "127.0.0.1:4001")
	b := udpAddr(t, "127.0.0.1:4002")
	table.touch(a, start)
	table.touch(b, start)

	// b stays active, a goes idle.
	table.touch(b, start.Add(50*time.Second))

	active := table.active(start.Add(70*time.Second), idle)
	require.Len(t, active, 1)
	assert.Equal(t, b.String(), active[0].String())
	assert.Equal(t, 1, table.len(), "idle clients are pruned")
}

func TestClientTableZeroIdleNeverExpires(t *testing.T) {
	table := newClientTable()
	start := time.Now()

	table.touch(udpAddr(t, "127.0.0.1:4001"), start)
	active := table.active(start.Add(24*time.Hour), 0)
	assert.Len(t, active, 1)
}
