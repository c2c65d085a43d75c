package sequencer

import (
	"errors"
	"fmt"
)

// Save code decoding failures
var (
	ErrCodePrefix       = errors.New("save code must start with 0x")
	ErrCodeLength       = errors.New("save code must have 14 hex digits after 0x")
	ErrCodeHex          = errors.New("save code contains a non-hex character")
	ErrKeyRange         = errors.New("key out of range")
	ErrProgressionIndex = errors.New("progression index out of range")
	ErrUnknownGenerator = errors.New("unknown generator")
)

// DecodeError reports which field of a save code was rejected
type DecodeError struct {
	Code  string
	Field string // "prefix", "length", "hex", "key" or "progression"
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %s: %v", e.Code, e.Field, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func decodeErr(code, field string, cause error) *DecodeError {
	return &DecodeError{Code: code, Field: field, Cause: cause}
}
