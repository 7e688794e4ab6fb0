//go:build darwin && cgo

package vmnet

/*
#include "shim.h"
*/
import "C"

import "unsafe"

// SharedInterfaces lists the physical interfaces eligible for bridged mode,
// in the order the framework reports them.
func SharedInterfaces() ([]string, error) {
	var (
		names **C.char
		count C.size_t
	)
	if err := statusErr(uint32(C.go_vmnet_shared_interfaces(&names, &count))); err != nil {
		return nil, err
	}
	if names == nil || count == 0 {
		return nil, nil
	}
	defer C.go_vmnet_free_strings(names, count)

	out := make([]string, 0, int(count))
	for _, cs := range unsafe.Slice(names, int(count)) {
		out = append(out, C.GoString(cs))
	}
	return out, nil
}
