package scoring

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrComputation marks an internal arithmetic result that is non-finite
	// or out of range. It indicates a programming defect, not bad input.
	ErrComputation = errors.New("risk computation produced an invalid score")
)
