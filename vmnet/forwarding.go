package vmnet

import (
	"errors"
	"fmt"
	"net/netip"
)

// Protocol is an IP protocol number accepted by the framework's
// port-forwarding calls.
type Protocol uint8

const (
	ProtocolTCP Protocol = 6
	ProtocolUDP Protocol = 17
)

func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "tcp"
	case ProtocolUDP:
		return "udp"
	default:
		return fmt.Sprintf("protocol(%d)", uint8(p))
	}
}

func ParseProtocol(s string) (Protocol, error) {
	switch s {
	case "tcp":
		return ProtocolTCP, nil
	case "udp":
		return ProtocolUDP, nil
	default:
		return 0, fmt.Errorf("vmnet: unknown protocol %q", s)
	}
}

// PortForwardingRule forwards a port on the host's external address to an
// address inside the interface's subnet. Available on macOS 10.15+.
type PortForwardingRule struct {
	Protocol        Protocol
	ExternalPort    uint16
	InternalAddress netip.Addr
	InternalPort    uint16
}

func (r PortForwardingRule) Validate() error {
	if r.Protocol != ProtocolTCP && r.Protocol != ProtocolUDP {
		return fmt.Errorf("vmnet: unsupported forwarding protocol %d", uint8(r.Protocol))
	}
	if r.ExternalPort == 0 || r.InternalPort == 0 {
		return errors.New("vmnet: forwarding ports must be non-zero")
	}
	if !r.InternalAddress.Is4() {
		return errors.New("vmnet: internal address must be IPv4")
	}
	return nil
}

func (r PortForwardingRule) String() string {
	return fmt.Sprintf("%s :%d -> %s:%d", r.Protocol, r.ExternalPort, r.InternalAddress, r.InternalPort)
}
