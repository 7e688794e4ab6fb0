package vmnet

import "sync"

// cgo forbids passing Go pointers through C memory, so the event callback
// carries an opaque integer key instead and interfaces are looked up here.
// See https://eli.thegreenplace.net/2019/passing-callbacks-and-pointers-to-cgo/
var handles = struct {
	sync.Mutex
	m    map[uintptr]*Interface
	next uintptr
}{m: map[uintptr]*Interface{}}

func registerHandle(ifc *Interface) uintptr {
	handles.Lock()
	defer handles.Unlock()
	handles.next++
	handles.m[handles.next] = ifc
	return handles.next
}

// lookupHandle returns nil for unknown keys; callbacks delivered after an
// interface is unregistered are dropped.
func lookupHandle(h uintptr) *Interface {
	handles.Lock()
	defer handles.Unlock()
	return handles.m[h]
}

func unregisterHandle(h uintptr) {
	handles.Lock()
	defer handles.Unlock()
	delete(handles.m, h)
}
