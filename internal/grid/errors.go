package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is matched by OutOfRangeError.
	ErrOutOfRange = errors.New("block index out of range")
	// ErrAlreadyClaimed is matched by AlreadyClaimedError.
	ErrAlreadyClaimed = errors.New("block already claimed")
	// ErrCorruptState is matched by CorruptStateError.
	ErrCorruptState = errors.New("corrupt grid state")
	// ErrInvalidArgument reports malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrQuotaExceeded is matched by QuotaExceededError.
	ErrQuotaExceeded = errors.New("daily dig quota exceeded")
	// ErrNotOwner is matched by NotOwnerError.
	ErrNotOwner = errors.New("block not owned by caller")
)

// OutOfRangeError reports an index outside [0, Total).
type OutOfRangeError struct {
	Index int
	Total int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("block index %d out of range [0, %d)", e.Index, e.Total)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// AlreadyClaimedError reports a claim against a dug block. Owner is the current owner.
type AlreadyClaimedError struct {
	Index int
	Owner string
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("block %d already claimed by %q", e.Index, e.Owner)
}

func (e *AlreadyClaimedError) Is(target error) bool { return target == ErrAlreadyClaimed }

// NotOwnerError reports an owner-only change attempted by someone else.
// Owner is empty when the block is undug.
type NotOwnerError struct {
	Index    int
	Owner    string
	Identity string
}

func (e *NotOwnerError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("block %d is not dug, %q does not own it", e.Index, e.Identity)
	}
	return fmt.Sprintf("block %d belongs to %q, not %q", e.Index, e.Owner, e.Identity)
}

func (e *NotOwnerError) Is(target error) bool { return target == ErrNotOwner }

// CorruptStateError reports a durable document that fails validation.
// Index is -1 when the problem is not tied to a single block.
type CorruptStateError struct {
	Index  int
	Reason string
	Err    error
}

func (e *CorruptStateError) Error() string {
	msg := "corrupt grid state"
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at block %d", msg, e.Index)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptStateError) Is(target error) bool { return target == ErrCorruptState }

func (e *CorruptStateError) Unwrap() error { return e.Err }

// QuotaExceededError reports that Identity already used its daily digs.
type QuotaExceededError struct {
	Identity string
	Limit    int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%q reached the daily dig limit of %d", e.Identity, e.Limit)
}

func (e *QuotaExceededError) Is(target error) bool { return target == ErrQuotaExceeded }

// Corrupt builds a CorruptStateError for a single block.
func Corrupt(index int, format string, args ...any) *CorruptStateError {
	return &CorruptStateError{Index: index, Reason: fmt.Sprintf(format, args...)}
}
