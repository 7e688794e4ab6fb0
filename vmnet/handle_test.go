package vmnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleRegistry(t *testing.T) {
	a := New(Options{Mode: ModeShared})
	b := New(Options{Mode: ModeHost})

	ha := registerHandle(a)
	hb := registerHandle(b)
	defer unregisterHandle(ha)
	defer unregisterHandle(hb)

	assert.NotEqual(t, ha, hb)
	assert.Same(t, a, lookupHandle(ha))
	assert.Same(t, b, lookupHandle(hb))
}

func TestHandleUnregister(t *testing.T) {
	ifc := New(Options{Mode: ModeShared})
	h := registerHandle(ifc)
	unregisterHandle(h)

	// A late callback for a released handle must resolve to nothing.
	assert.Nil(t, lookupHandle(h))

	// Unregistering twice is harmless.
	unregisterHandle(h)
}

func TestHandleLookupUnknown(t *testing.T) {
	assert.Nil(t, lookupHandle(0))
	assert.Nil(t, lookupHandle(1<<40))
}
