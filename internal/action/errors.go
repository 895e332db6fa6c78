package action

import (
	"errors"
	"fmt"
)

// ErrFailed marks an action outcome the operator should see as a notification
// while the session continues. External-process failures are re-expressed as
// ErrFailed at the boundary where they occur.
var ErrFailed = errors.New("action failed")

// ErrCancelled marks a deliberate operator abort. It never propagates past
// the dispatcher; the session simply stays where it was.
var ErrCancelled = errors.New("action cancelled")

// Failedf builds an ErrFailed with a formatted message.
func Failedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFailed, fmt.Sprintf(format, args...))
}

// IsRecoverable reports whether err should become a notification rather than
// reach the crash reporter.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrFailed) || errors.Is(err, ErrCancelled)
}
