package stego

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNLSB is returned before any mutation when the requested
	// bit width is out of range.
	ErrInvalidNLSB = errors.New("lsb bits must be between 1 and 4")

	// ErrEmptyPayload is returned when there is nothing to hide.
	ErrEmptyPayload = errors.New("secret payload is empty")

	// ErrNotFound is returned when no (nlsb, offset) candidate produced a
	// checksum-valid message.
	ErrNotFound = errors.New("failed to extract hidden data; verify key and options")
)

// CapacityError reports that the container message does not fit in the
// cover's usable bytes. Raised before any byte is modified.
type CapacityError struct {
	RequiredBits  int
	AvailableBits int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("secret data too large: need %d bits, cover provides %d bits",
		e.RequiredBits, e.AvailableBits)
}
