//go:build darwin && cgo

package vmnet

/*
#include <stdint.h>
*/
import "C"

// goVMNetPacketsAvailable runs on the interface's event dispatch queue.
// The count is only an estimate, so it is coalesced into the notifier's
// generation counter rather than tracked.
//
//export goVMNetPacketsAvailable
func goVMNetPacketsAvailable(handle C.uintptr_t, count C.uint64_t) {
	_ = count
	if ifc := lookupHandle(uintptr(handle)); ifc != nil {
		ifc.notify.signal()
	}
}
