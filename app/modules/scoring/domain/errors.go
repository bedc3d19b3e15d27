package scoringdomain

import (
	"errors"
	"fmt"
)

// Error classes for the scoring engine.
// Structural and selection errors are fatal to a run. Input errors are reported per
// player so the rest of a roster can still be scored.
var (
	// ErrStructural indicates the round definition itself is unusable.
	ErrStructural = errors.New("invalid round definition")

	// ErrSelection indicates the reference hole selection is unusable.
	ErrSelection = errors.New("invalid reference hole selection")

	// ErrInput indicates a player's scores (or the roster as a whole) cannot be scored.
	ErrInput = errors.New("invalid scoring input")
)

// StructuralError describes which part of a round definition is broken.
type StructuralError struct {
	Field  string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrStructural, e.Field, e.Reason)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// SelectionError describes a rejected reference hole selection.
type SelectionError struct {
	Holes  []int
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s %v: %s", ErrSelection, e.Holes, e.Reason)
}

func (e *SelectionError) Unwrap() error { return ErrSelection }

// InputError carries the offending player and field so callers can render a message.
// PlayerID is empty for roster-level failures.
type InputError struct {
	PlayerID string
	Field    string
	Reason   string
}

func (e *InputError) Error() string {
	if e.PlayerID == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInput, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: player %q: %s: %s", ErrInput, e.PlayerID, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInput }

func structuralf(field, format string, args ...any) error {
	return &StructuralError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func inputf(playerID, field, format string, args ...any) error {
	return &InputError{PlayerID: playerID, Field: field, Reason: fmt.Sprintf(format, args...)}
}
