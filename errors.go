package api

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrPrecondition marks a caller bug, such as merging into a closed set.
	ErrPrecondition = errors.New("precondition violation")
	// ErrDecode marks a malformed blob from an untrusted channel.
	ErrDecode = errors.New("decode error")
)

const (
	CheckSetupMissing  = "setup_missing"
	CheckInputMissing  = "input_missing"
	CheckOutputMissing = "output_missing"
	CheckUnderpaid     = "underpaid"
	CheckUnlockTime    = "unlock_time"
	CheckRangeProof    = "range_proof"
	CheckBalance       = "balance"
	CheckExtra         = "extra"
)

// ProtocolViolation is returned when a co-signer's contribution fails a
// signing time check. Check names the failed check.
type ProtocolViolation struct {
	Check   string
	Message string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("multiuser protocol violation %s: %s", e.Check, e.Message)
}

func violation(check, format string, args ...interface{}) error {
	return &ProtocolViolation{Check: check, Message: fmt.Sprintf(format, args...)}
}

// AsProtocolViolation unwraps err into a *ProtocolViolation.
func AsProtocolViolation(err error) (*ProtocolViolation, bool) {
	var pv *ProtocolViolation
	if errors.As(err, &pv) {
		return pv, true
	}
	return nil, false
}
