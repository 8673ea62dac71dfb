package common

import (
	"errors"
	"fmt"
)

const (
	major = 0
	minor = 1
	patch = 0

	// Versions from which persisted state can still be served.
	prevMajor = 0
	prevMinor = 1
	prevPatch = 0

	Version = major*1_000_000 + minor*1_000 + patch

	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch
)

// ErrVersionMismatch is returned by CheckVersion for state that can't be
// served by the current code.
var ErrVersionMismatch = errors.New("state version mismatch")

// CheckVersion checks that state persisted by the given version can be used
// by the current one. Zero means the state was never initialized.
func CheckVersion(from int64) error {
	if from == 0 {
		return fmt.Errorf("%w: state is not initialized", ErrVersionMismatch)
	}
	if from < PrevVersion {
		return fmt.Errorf("%w: expected >=%d, got %d", ErrVersionMismatch, PrevVersion, from)
	}
	if from > Version {
		return fmt.Errorf("%w: state written by newer version %d", ErrVersionMismatch, from)
	}
	return nil
}
