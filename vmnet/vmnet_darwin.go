//go:build darwin && cgo

package vmnet

/*
#cgo CFLAGS: -fblocks
#cgo LDFLAGS: -framework vmnet
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"unsafe"
)

var errNotStarted = errors.New("vmnet: interface not started")

// Interface is a running (or to-be-started) vmnet interface. It pairs the
// framework's interface_ref with the notifier that delivers packets-available
// events to blocked readers. An Interface is owned by its creator; all
// methods are safe for concurrent use.
type Interface struct {
	opts   Options
	notify *notifier

	mu      sync.Mutex
	started bool
	stopped bool
	ref     C.interface_ref
	handle  uintptr

	mac           net.HardwareAddr
	mtu           int
	maxPacketSize int
}

func New(opts Options) *Interface {
	return &Interface{opts: opts, notify: newNotifier()}
}

// Start creates the interface and blocks until the framework's asynchronous
// start completion fires. On success the MAC address, MTU and maximum packet
// size reported by the framework are available through their accessors.
func (ifc *Interface) Start() error {
	if err := ifc.opts.Validate(); err != nil {
		return err
	}

	ifc.mu.Lock()
	defer ifc.mu.Unlock()
	if ifc.started {
		return errors.New("vmnet: interface already started")
	}

	cfg := C.go_vmnet_config{
		operation_mode:   C.uint32_t(ifc.opts.Mode),
		enable_isolation: C.bool(ifc.opts.EnableIsolation),
	}
	var cstrs []unsafe.Pointer
	cstr := func(s string) *C.char {
		p := C.CString(s)
		cstrs = append(cstrs, unsafe.Pointer(p))
		return p
	}
	defer func() {
		for _, p := range cstrs {
			C.free(p)
		}
	}()
	if ifc.opts.InterfaceID != "" {
		cfg.interface_id = cstr(ifc.opts.InterfaceID)
	}
	if ifc.opts.StartAddress.IsValid() {
		cfg.start_address = cstr(ifc.opts.StartAddress.String())
		cfg.end_address = cstr(ifc.opts.EndAddress.String())
		cfg.subnet_mask = cstr(ifc.opts.SubnetMask.String())
	}
	if ifc.opts.SharedInterface != "" {
		cfg.shared_interface = cstr(ifc.opts.SharedInterface)
	}

	handle := registerHandle(ifc)

	var (
		ref    C.interface_ref
		params C.go_vmnet_params
	)
	if err := statusErr(uint32(C.go_vmnet_start(&cfg, C.uintptr_t(handle), &ref, &params))); err != nil {
		unregisterHandle(handle)
		return err
	}

	mac, err := net.ParseMAC(C.GoString(&params.mac[0]))
	if err != nil {
		unregisterHandle(handle)
		C.go_vmnet_stop(ref)
		return fmt.Errorf("vmnet: parse interface mac: %w", err)
	}

	ifc.started = true
	ifc.ref = ref
	ifc.handle = handle
	ifc.mac = mac
	ifc.mtu = int(params.mtu)
	ifc.maxPacketSize = int(params.max_packet_size)
	return nil
}

// Stop releases the interface and wakes every goroutine blocked in Read or
// WaitForPackets with ErrStopped. Stopping twice (or before Start) is a no-op.
func (ifc *Interface) Stop() error {
	ifc.mu.Lock()
	if !ifc.started || ifc.stopped {
		ifc.mu.Unlock()
		return nil
	}
	ifc.stopped = true
	ref := ifc.ref
	handle := ifc.handle
	ifc.mu.Unlock()

	unregisterHandle(handle)
	ifc.notify.close()
	return statusErr(uint32(C.go_vmnet_stop(ref)))
}

// Read copies the next Ethernet frame into p and returns its length,
// blocking until the framework signals a packet. The buffer must hold at
// least MaxPacketSize bytes or the framework rejects the read.
func (ifc *Interface) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, ErrInvalidArgument
	}
	for {
		ref, err := ifc.running()
		if err != nil {
			return 0, err
		}

		// Observe the generation before trying the read so a packet
		// arriving in between wakes the wait below immediately.
		gen := ifc.notify.generation()

		var size C.int
		if err := statusErr(uint32(C.go_vmnet_read(ref, unsafe.Pointer(&p[0]), C.size_t(len(p)), &size))); err != nil {
			return 0, err
		}
		if size >= 0 {
			return int(size), nil
		}

		if _, err := ifc.notify.wait(gen); err != nil {
			return 0, err
		}
	}
}

// Write sends a single Ethernet frame.
func (ifc *Interface) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, ErrInvalidArgument
	}
	ref, err := ifc.running()
	if err != nil {
		return 0, err
	}

	var written C.int
	if err := statusErr(uint32(C.go_vmnet_write(ref, unsafe.Pointer(&p[0]), C.size_t(len(p)), &written))); err != nil {
		return 0, err
	}
	return int(written), nil
}

// Generation returns the current packets-available generation, for use with
// WaitForPackets.
func (ifc *Interface) Generation() uint64 {
	return ifc.notify.generation()
}

// WaitForPackets blocks until the framework has signalled packet arrival
// after generation gen, returning the generation observed. Callers doing
// their own read scheduling use this instead of the blocking Read.
func (ifc *Interface) WaitForPackets(gen uint64) (uint64, error) {
	return ifc.notify.wait(gen)
}

// MAC returns the interface's MAC address. Valid after Start.
func (ifc *Interface) MAC() net.HardwareAddr {
	ifc.mu.Lock()
	defer ifc.mu.Unlock()
	return ifc.mac
}

// MTU returns the MTU the guest side should configure. Valid after Start.
func (ifc *Interface) MTU() int {
	ifc.mu.Lock()
	defer ifc.mu.Unlock()
	return ifc.mtu
}

// MaxPacketSize returns the largest frame the interface accepts, which is
// also the minimum buffer size for Read. Valid after Start.
func (ifc *Interface) MaxPacketSize() int {
	ifc.mu.Lock()
	defer ifc.mu.Unlock()
	return ifc.maxPacketSize
}

func (ifc *Interface) running() (C.interface_ref, error) {
	ifc.mu.Lock()
	defer ifc.mu.Unlock()
	if !ifc.started {
		return nil, errNotStarted
	}
	if ifc.stopped {
		return nil, ErrStopped
	}
	return ifc.ref, nil
}
