// Package relay bridges a vmnet interface to QEMU's UDP socket network
// backend. Frames read from the interface fan out to every client that has
// sent a datagram recently; datagrams from clients are written to the
// interface verbatim.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/adnsio/go-vmnet/vmnet"
)

// Device is the frame endpoint the relay pumps against. *vmnet.Interface
// implements it.
type Device interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	MaxPacketSize() int
}

type Relay struct {
	dev     Device
	conn    *net.UDPConn
	clients *clientTable
	idle    time.Duration
	log     zerolog.Logger
}

func New(dev Device, conn *net.UDPConn, idle time.Duration, log zerolog.Logger) *Relay {
	return &Relay{
		dev:     dev,
		conn:    conn,
		clients: newClientTable(),
		idle:    idle,
		log:     log.With().Str("component", "relay").Logger(),
	}
}

// Run pumps frames in both directions until the context is cancelled or a
// pump fails. The caller is expected to stop the device and close the
// connection on cancellation; the pumps treat the resulting ErrStopped and
// net.ErrClosed as a clean shutdown.
func (r *Relay) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.pumpDevice(ctx) })
	g.Go(func() error { return r.pumpClients(ctx) })
	return g.Wait()
}

func (r *Relay) pumpDevice(ctx context.Context) error {
	buf := make([]byte, r.dev.MaxPacketSize())
	for {
		n, err := r.dev.Read(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, vmnet.ErrStopped) {
				return nil
			}
			return fmt.Errorf("read from vmnet: %w", err)
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])

		if e := r.log.Debug(); e.Enabled() {
			e.Int("len", n).Str("frame", frameSummary(frame)).Msg("frame from vmnet")
		}

		for _, addr := range r.clients.active(time.Now(), r.idle) {
			if _, err := r.conn.WriteToUDP(frame, addr); err != nil {
				if errors.Is(err, net.ErrClosed) {
					return nil
				}
				r.log.Warn().Err(err).Stringer("client", addr).Msg("write to client")
			}
		}
	}
}

func (r *Relay) pumpClients(ctx context.Context) error {
	// One byte over the device limit so oversized datagrams are detected
	// instead of silently truncated.
	buf := make([]byte, r.dev.MaxPacketSize()+1)
	for {
		n, addr, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read from udp: %w", err)
		}

		if r.clients.touch(addr, time.Now()) {
			r.log.Info().Stringer("client", addr).Msg("new client")
		}

		if n > r.dev.MaxPacketSize() {
			r.log.Warn().Int("len", n).Stringer("client", addr).Msg("dropping oversized frame")
			continue
		}

		if e := r.log.Debug(); e.Enabled() {
			e.Int("len", n).Stringer("client", addr).Str("frame", frameSummary(buf[:n])).Msg("frame from client")
		}

		if _, err := r.dev.Write(buf[:n]); err != nil {
			if ctx.Err() != nil || errors.Is(err, vmnet.ErrStopped) {
				return nil
			}
			r.log.Warn().Err(err).Msg("write to vmnet")
		}
	}
}
