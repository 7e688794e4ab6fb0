package vmnet

import (
	"errors"
	"fmt"
)

// Failure values of vmnet_return_t, one sentinel per code so callers can
// match with errors.Is. The messages follow the framework's own naming.
var (
	ErrGeneralFailure     = errors.New("vmnet: general failure")
	ErrOutOfMemory        = errors.New("vmnet: memory allocation failed")
	ErrInvalidArgument    = errors.New("vmnet: invalid argument")
	ErrSetupIncomplete    = errors.New("vmnet: interface setup is not complete")
	ErrInvalidAccess      = errors.New("vmnet: permission denied (run as root or with the com.apple.vm.networking entitlement)")
	ErrPacketTooBig       = errors.New("vmnet: packet size larger than MTU")
	ErrBufferExhausted    = errors.New("vmnet: kernel buffers exhausted")
	ErrTooManyPackets     = errors.New("vmnet: packet count exceeds limit")
	ErrSharingServiceBusy = errors.New("vmnet: sharing service busy")
)

// Errors raised by the binding itself rather than the framework.
var (
	ErrStopped     = errors.New("vmnet: interface stopped")
	ErrUnsupported = errors.New("vmnet: not supported on this platform")
)

const statusSuccess = 1000

var statusErrors = map[uint32]error{
	1001: ErrGeneralFailure,
	1002: ErrOutOfMemory,
	1003: ErrInvalidArgument,
	1004: ErrSetupIncomplete,
	1005: ErrInvalidAccess,
	1006: ErrPacketTooBig,
	1007: ErrBufferExhausted,
	1008: ErrTooManyPackets,
	1009: ErrSharingServiceBusy,
}

// statusErr maps a vmnet_return_t to its sentinel. Success maps to nil.
func statusErr(code uint32) error {
	if code == statusSuccess {
		return nil
	}
	if err, ok := statusErrors[code]; ok {
		return err
	}
	return fmt.Errorf("vmnet: unknown status %d", code)
}
