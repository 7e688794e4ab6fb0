//go:build darwin && cgo

package vmnet

/*
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"encoding/binary"
	"net/netip"
	"unsafe"
)

// AddPortForwardingRule installs a rule forwarding a host port into the
// interface's subnet. Requires macOS 10.15+; on older releases the framework
// call is unavailable and ErrGeneralFailure is returned.
func (ifc *Interface) AddPortForwardingRule(rule PortForwardingRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	ref, err := ifc.running()
	if err != nil {
		return err
	}

	addr := rule.InternalAddress.As4()
	crule := C.go_vmnet_fwd_rule{
		protocol:         C.uint8_t(rule.Protocol),
		external_port:    C.uint16_t(rule.ExternalPort),
		internal_address: C.uint32_t(binary.BigEndian.Uint32(addr[:])),
		internal_port:    C.uint16_t(rule.InternalPort),
	}
	return statusErr(uint32(C.go_vmnet_add_fwd_rule(ref, crule)))
}

// RemovePortForwardingRule removes the rule for the protocol/external-port
// pair. Requires macOS 10.15+.
func (ifc *Interface) RemovePortForwardingRule(protocol Protocol, externalPort uint16) error {
	ref, err := ifc.running()
	if err != nil {
		return err
	}
	return statusErr(uint32(C.go_vmnet_remove_fwd_rule(ref, C.uint8_t(protocol), C.uint16_t(externalPort))))
}

// PortForwardingRules returns the rules currently installed on the
// interface. Requires macOS 10.15+.
func (ifc *Interface) PortForwardingRules() ([]PortForwardingRule, error) {
	ref, err := ifc.running()
	if err != nil {
		return nil, err
	}

	var (
		crules *C.go_vmnet_fwd_rule
		count  C.size_t
	)
	if err := statusErr(uint32(C.go_vmnet_list_fwd_rules(ref, &crules, &count))); err != nil {
		return nil, err
	}
	if crules == nil || count == 0 {
		return nil, nil
	}
	defer C.free(unsafe.Pointer(crules))

	rules := make([]PortForwardingRule, 0, int(count))
	for _, cr := range unsafe.Slice(crules, int(count)) {
		var addr [4]byte
		binary.BigEndian.PutUint32(addr[:], uint32(cr.internal_address))
		rules = append(rules, PortForwardingRule{
			Protocol:        Protocol(cr.protocol),
			ExternalPort:    uint16(cr.external_port),
			InternalAddress: netip.AddrFrom4(addr),
			InternalPort:    uint16(cr.internal_port),
		})
	}
	return rules, nil
}
