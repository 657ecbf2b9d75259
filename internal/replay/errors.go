package replay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/scorebook/internal/game"
)

// Error reports a replay or patch that could not complete. Nothing is
// committed when one is returned.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// EventID identifies the event that failed, when there is one.
	EventID string

	// Index is the position of that event in the log, or -1.
	Index int

	// Name is the failing event's kind.
	Name game.Name

	// Messages holds the validator messages or a description of the
	// failure.
	Messages []string
}

// ErrorCode categorizes replay failures.
type ErrorCode string

const (
	// ErrCodeRejected indicates a logged event failed validation during a
	// full replay. The log is corrupt or the rules changed under it.
	ErrCodeRejected ErrorCode = "REPLAY_REJECTED"

	// ErrCodeNotFound indicates the event to patch is not in the log.
	ErrCodeNotFound ErrorCode = "EVENT_NOT_FOUND"

	// ErrCodeIDMismatch indicates a replacement with a different event id.
	ErrCodeIDMismatch ErrorCode = "EVENT_ID_MISMATCH"

	// ErrCodeLockedState indicates a replacement that changes locked game
	// state.
	ErrCodeLockedState ErrorCode = "LOCKED_STATE_CHANGED"

	// ErrCodePrefix indicates the events before the patch target failed to
	// replay.
	ErrCodePrefix ErrorCode = "PREFIX_REPLAY_FAILED"

	// ErrCodeOriginal indicates the event being patched no longer applies
	// to its own pre-event state.
	ErrCodeOriginal ErrorCode = "ORIGINAL_REJECTED"

	// ErrCodeReplacement indicates the replacement fails validation.
	ErrCodeReplacement ErrorCode = "REPLACEMENT_REJECTED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if e.EventID != "" {
		return fmt.Sprintf("%s: %s (event=%s, index=%d, name=%s)", e.Code, msg, e.EventID, e.Index, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func rejected(code ErrorCode, index int, ev game.Event, messages []string) *Error {
	return &Error{Code: code, EventID: ev.ID, Index: index, Name: ev.Name, Messages: messages}
}

// CodeOf returns the code of a *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsLockedStateError reports whether err is a patch rejected for changing
// locked game state.
func IsLockedStateError(err error) bool {
	return CodeOf(err) == ErrCodeLockedState
}

// IsNotFoundError reports whether err names an event missing from the log.
func IsNotFoundError(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}
