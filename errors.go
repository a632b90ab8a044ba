package pkm

import "fmt"

// The engine distinguishes three hard failure conditions from degraded data.
// Validation and not-found conditions block the triggering operation with no
// partial write. A duplicate snapshot rejects the write but leaves the
// existing row untouched. Degraded market data is never an error; see
// PriceResult.

// ValidationError reports malformed or out-of-range input to a mutating
// operation.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return "invalid input: " + e.Reason }

// invalidf builds a ValidationError.
func invalidf(format string, args ...any) error {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an operation referencing an ID absent from its
// collection.
type NotFoundError struct {
	Collection string
	ID         int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s: no row with ID %d", e.Collection, e.ID)
}

// DuplicateSnapshotError reports a second snapshot committed for the same
// calendar day. The caller should surface it as a warning, not a failure.
type DuplicateSnapshotError struct {
	Table string
	Date  Date
}

func (e DuplicateSnapshotError) Error() string {
	return fmt.Sprintf("%s: a snapshot for %s already exists", e.Table, e.Date)
}
