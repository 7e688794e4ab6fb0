//go:build !darwin || !cgo

package vmnet

import "net"

// vmnet.framework only exists on macOS. The stub keeps cross-platform
// consumers compiling; every operation reports ErrUnsupported.

type Interface struct {
	opts   Options
	notify *notifier
}

func New(opts Options) *Interface {
	return &Interface{opts: opts, notify: newNotifier()}
}

func (ifc *Interface) Start() error {
	if err := ifc.opts.Validate(); err != nil {
		return err
	}
	return ErrUnsupported
}

func (ifc *Interface) Stop() error { return nil }

func (ifc *Interface) Read(p []byte) (int, error)  { return 0, ErrUnsupported }
func (ifc *Interface) Write(p []byte) (int, error) { return 0, ErrUnsupported }

func (ifc *Interface) Generation() uint64 { return ifc.notify.generation() }

func (ifc *Interface) WaitForPackets(gen uint64) (uint64, error) {
	return 0, ErrUnsupported
}

func (ifc *Interface) MAC() net.HardwareAddr { return nil }
func (ifc *Interface) MTU() int              { return 0 }
func (ifc *Interface) MaxPacketSize() int    { return 0 }

func (ifc *Interface) AddPortForwardingRule(rule PortForwardingRule) error {
	return ErrUnsupported
}

func (ifc *Interface) RemovePortForwardingRule(protocol Protocol, externalPort uint16) error {
	return ErrUnsupported
}

func (ifc *Interface) PortForwardingRules() ([]PortForwardingRule, error) {
	return nil, ErrUnsupported
}

func SharedInterfaces() ([]string, error) { return nil, ErrUnsupported }
