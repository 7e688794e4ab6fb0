package vmnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusErrSuccess(t *testing.T) {
	assert.NoError(t, statusErr(1000))
}

func TestStatusErrMapsKnownCodes(t *testing.T) {
	tests := []struct {
		code uint32
		want error
	}{
		{1001, ErrGeneralFailure},
		{1002, ErrOutOfMemory},
		{1003, ErrInvalidArgument},
		{1004, ErrSetupIncomplete},
		{1005, ErrInvalidAccess},
		{1006, ErrPacketTooBig},
		{1007, ErrBufferExhausted},
		{1008, ErrTooManyPackets},
		{1009, ErrSharingServiceBusy},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, statusErr(tt.code), tt.want, "code %d", tt.code)
	}
}

func TestStatusErrUnknownCode(t *testing.T) {
	err := statusErr(4242)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4242")
}
