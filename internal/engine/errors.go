package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/scorebook/internal/game"
)

// ValidationError reports why an event was rejected.
//
// Rejections fall into three categories:
//   - Unsupported: the event kind is unknown to the engine
//   - Policy: the game status forbids the event kind
//   - Invalid: payload fields are missing or mistyped, or the payload
//     disagrees with the game state (roster, bases, count)
//
// Errors carries every human-readable message the validator produced.
type ValidationError struct {
	// Code identifies the rejection category.
	Code ErrorCode

	// EventID identifies the rejected event.
	EventID string

	// Name is the rejected event's kind.
	Name game.Name

	// Errors lists the validator messages in the order they were found.
	Errors []string
}

// ErrorCode categorizes validation failures.
type ErrorCode string

const (
	// ErrCodeUnsupported indicates the event kind has no transition rule.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_EVENT"

	// ErrCodePolicy indicates the current game status forbids the event.
	ErrCodePolicy ErrorCode = "STATUS_FORBIDS_EVENT"

	// ErrCodeInvalid indicates a schema or state-consistency failure.
	ErrCodeInvalid ErrorCode = "INVALID_EVENT"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := strings.Join(e.Errors, "; ")
	if e.EventID != "" {
		return fmt.Sprintf("%s: %s (event=%s, name=%s)", e.Code, msg, e.EventID, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// IsPolicyError returns true if err is a rejection caused by game status.
// Uses errors.As to handle wrapped errors.
func IsPolicyError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == ErrCodePolicy
	}
	return false
}

// IsUnsupportedError returns true if err rejects an unknown event kind.
func IsUnsupportedError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == ErrCodeUnsupported
	}
	return false
}
