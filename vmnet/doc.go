// Package vmnet exposes Apple's vmnet.framework to Go programs.
//
// The framework hands out virtual network interfaces backed by macOS's own
// NAT, DHCP and bridging machinery. This package wraps interface creation,
// raw Ethernet frame I/O, packets-available notifications and, on macOS
// 10.15 and later, port-forwarding rules and shared-interface enumeration.
//
// Creating an interface requires either running as root or holding the
// com.apple.vm.networking entitlement.
//
// On platforms other than macOS (or with cgo disabled) the package compiles
// but every operation returns ErrUnsupported.
package vmnet
