package mlmodel

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrModelLoad  = errors.New("model load failed")
	ErrModelWatch = errors.New("model watch failed")
)
