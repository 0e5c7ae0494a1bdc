package notation

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnknownBoard   = errors.New("unknown board")
	ErrSourceRequired = errors.New("source square required when no piece is named")
	ErrUnknownFormat  = errors.New("unknown notation format")
)

// SyntaxError reports text a tokenizer could not read.
// Err, when set, is the underlying cause.
type SyntaxError struct {
	Offset int
	Near   string
	Msg    string
	Err    error
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("syntax error at offset %d near %q: %s", e.Offset, e.Near, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

func (e *SyntaxError) Unwrap() error { return e.Err }

// NewSyntaxError builds a SyntaxError quoting at most ten bytes of rest.
func NewSyntaxError(offset int, rest, msg string) *SyntaxError {
	if len(rest) > 10 {
		rest = rest[:10] + "..."
	}
	return &SyntaxError{Offset: offset, Near: rest, Msg: msg}
}

// ApplyError wraps the failure of a single token during replay.
type ApplyError struct {
	Index int
	Raw   string
	Err   error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("token %d (%q): %v", e.Index, e.Raw, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// ErrUnrepresentable reports a game a format has no way to write, such as
// half-offset timelines in a notation with integer timeline numbers.
var ErrUnrepresentable = errors.New("game cannot be expressed in this notation")
