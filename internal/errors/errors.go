// Package errors defines the error kinds the engine reports to its callers and
// the helpers the CLI uses to print them.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/daybook/internal/logger"
)

// Kinds. Every error returned by the store, calculators and scheduler wraps
// exactly one of these, so callers branch with errors.Is.
var (
	ErrValidation   = stderrors.New("validation error")
	ErrTaskBlocked  = stderrors.New("task blocked")
	ErrNotFound     = stderrors.New("not found")
	ErrCorruptState = stderrors.New("corrupt state")
)

// Error carries the operation and entity that produced a kind.
type Error struct {
	Kind error
	Op   string
	ID   string
	Msg  string

	// Blockers lists the unfinished predecessor ids for ErrTaskBlocked.
	Blockers []string

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

func Validation(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Blocked(op, id string, blockers []string) error {
	return &Error{
		Kind:     ErrTaskBlocked,
		Op:       op,
		ID:       id,
		Msg:      fmt.Sprintf("task %s waits on %s", id, strings.Join(blockers, ", ")),
		Blockers: blockers,
	}
}

func NotFound(op, entity, id string) error {
	return &Error{Kind: ErrNotFound, Op: op, ID: id, Msg: fmt.Sprintf("%s %s", entity, id)}
}

func Corrupt(collection string, cause error) error {
	return &Error{Kind: ErrCorruptState, Op: "restore", Msg: collection, cause: cause}
}

func IsValidation(err error) bool { return stderrors.Is(err, ErrValidation) }
func IsBlocked(err error) bool    { return stderrors.Is(err, ErrTaskBlocked) }
func IsNotFound(err error) bool   { return stderrors.Is(err, ErrNotFound) }
func IsCorrupt(err error) bool    { return stderrors.Is(err, ErrCorruptState) }

// BlockersOf returns the predecessor ids carried by a TaskBlocked error.
func BlockersOf(err error) []string {
	var e *Error
	if stderrors.As(err, &e) && e.Kind == ErrTaskBlocked {
		return e.Blockers
	}
	return nil
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
