package vmnet

import (
	"errors"
	"fmt"
	"net/netip"
)

// OperationMode selects how the framework connects the interface to the
// outside world.
//
// https://developer.apple.com/documentation/vmnet/operating_modes_t
type OperationMode uint32

const (
	// ModeHost allows traffic between the interface and the host only.
	ModeHost OperationMode = 1000
	// ModeShared gives the interface NAT access through the host's
	// default route, with DHCP handled by macOS.
	ModeShared OperationMode = 1001
	// ModeBridged bridges the interface onto a physical interface.
	ModeBridged OperationMode = 1002
)

func (m OperationMode) String() string {
	switch m {
	case ModeHost:
		return "host"
	case ModeShared:
		return "shared"
	case ModeBridged:
		return "bridged"
	default:
		return fmt.Sprintf("mode(%d)", uint32(m))
	}
}

// ParseOperationMode converts the textual form used by flags and config
// files back into an OperationMode.
func ParseOperationMode(s string) (OperationMode, error) {
	switch s {
	case "host":
		return ModeHost, nil
	case "shared":
		return ModeShared, nil
	case "bridged":
		return ModeBridged, nil
	default:
		return 0, fmt.Errorf("vmnet: unknown operation mode %q", s)
	}
}

// Options configures interface creation. The zero value is not usable;
// Mode must be set.
type Options struct {
	Mode OperationMode

	// InterfaceID pins the interface UUID. macOS derives the MAC address
	// from it, so a fixed UUID keeps the MAC stable across restarts.
	// Empty means a random UUID.
	InterfaceID string

	// StartAddress, EndAddress and SubnetMask bound the DHCP range for
	// host and shared modes. Either all three are set or none, in which
	// case the framework picks a subnet.
	StartAddress netip.Addr
	EndAddress   netip.Addr
	SubnetMask   netip.Addr

	// EnableIsolation blocks traffic between interfaces in the same mode,
	// leaving only host (and NAT) connectivity.
	EnableIsolation bool

	// SharedInterface names the physical interface to attach to in
	// bridged mode. See SharedInterfaces for valid names.
	SharedInterface string
}

func (o Options) Validate() error {
	switch o.Mode {
	case ModeHost, ModeShared, ModeBridged:
	default:
		return fmt.Errorf("vmnet: unknown operation mode %d", uint32(o.Mode))
	}

	if o.InterfaceID != "" && !validUUID(o.InterfaceID) {
		return fmt.Errorf("vmnet: interface id %q is not a valid UUID", o.InterfaceID)
	}

	hasRange := o.StartAddress.IsValid() || o.EndAddress.IsValid() || o.SubnetMask.IsValid()
	if hasRange {
		if o.Mode == ModeBridged {
			return errors.New("vmnet: address range cannot be set in bridged mode")
		}
		for _, addr := range []netip.Addr{o.StartAddress, o.EndAddress, o.SubnetMask} {
			if !addr.Is4() {
				return errors.New("vmnet: address range requires IPv4 start, end and subnet mask")
			}
		}
	}

	if o.Mode == ModeBridged && o.SharedInterface == "" {
		return errors.New("vmnet: bridged mode requires a shared interface name")
	}
	if o.Mode != ModeBridged && o.SharedInterface != "" {
		return fmt.Errorf("vmnet: shared interface %q only applies to bridged mode", o.SharedInterface)
	}

	return nil
}

// validUUID checks the canonical 8-4-4-4-12 form accepted by uuid_parse.
func validUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			isHex := c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
			if !isHex {
				return false
			}
		}
	}
	return true
}
