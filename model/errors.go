package model

import "fmt"

// ValidationError reports an empty or malformed required field. The
// operation aborts with no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an update or delete against an unknown id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// LastItemError reports a refused delete of the sole remaining location
// of a kind. The registry must never reach zero entries for a kind.
type LastItemError struct {
	Kind LocationKind
}

func (e *LastItemError) Error() string {
	return fmt.Sprintf("cannot delete the last %s location", e.Kind)
}

// ConflictError reports a write that would leave two ledger rows
// answering to the same scan key.
type ConflictError struct {
	Code string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("code %q already belongs to another pallet", e.Code)
}
