package relay

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adnsio/go-vmnet/vmnet"
)

// fakeDevice feeds Read from a channel and records Writes, standing in for
// the vmnet interface.
type fakeDevice struct {
	in  chan []byte
	out chan []byte
	mps int
}

func newFakeDevice(mps int) *fakeDevice {
	return &fakeDevice{
		in:  make(chan []byte, 16),
		out: make(chan []byte, 16),
		mps: mps,
	}
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	frame, ok := <-d.in
	if !ok {
		return 0, vmnet.ErrStopped
	}
	return copy(p, frame), nil
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	frame := make([]byte, len(p))
	copy(frame, p)
	d.out <- frame
	return len(p), nil
}

func (d *fakeDevice) MaxPacketSize() int { return d.mps }

func TestRelayBothDirections(t *testing.T) {
	dev := newFakeDevice(1514)

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	client, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := New(dev, conn, time.Minute, zerolog.Nop())

	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(ctx) }()

	// Client to device: the first datagram also registers the client.
	sent := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	_, err = client.WriteToUDP(sent, conn.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)

	select {
	case got := <-dev.out:
		assert.Equal(t, sent, got)
	case <-time.After(time.Second):
		t.Fatal("frame never reached the device")
	}

	// Device to client: fan-out to the client learned above.
	reply := []byte{0xca, 0xfe, 0xf0, 0x0d}
	dev.in <- reply

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	buf := make([]byte, 2048)
	n, _, err := client.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, reply, buf[:n])

	// Shutdown: cancel, stop the device, close the socket. Run exits clean.
	cancel()
	close(dev.in)
	conn.Close()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not shut down")
	}
}

func TestRelayDropsOversizedDatagrams(t *testing.T) {
	dev := newFakeDevice(32)

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	client, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := New(dev, conn, time.Minute, zerolog.Nop())

	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(ctx) }()

	target := conn.LocalAddr().(*net.UDPAddr)
	_, err = client.WriteToUDP(make([]byte, 64), target)
	require.NoError(t, err)

	fits := make([]byte, 16)
	fits[0] = 0x42
	_, err = client.WriteToUDP(fits, target)
	require.NoError(t, err)

	// Only the frame within MaxPacketSize arrives.
	select {
	case got := <-dev.out:
		assert.Equal(t, fits, got)
	case <-time.After(time.Second):
		t.Fatal("frame never reached the device")
	}
	select {
	case got := <-dev.out:
		t.Fatalf("unexpected extra frame of %d bytes", len(got))
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	close(dev.in)
	conn.Close()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not shut down")
	}
}
