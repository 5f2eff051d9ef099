package analysis

import (
	"errors"
	"fmt"
)

// ErrAnalysis matches every failure reported by an Analyzer.
var ErrAnalysis = errors.New("image analysis failed")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// Error is returned by Analyzer operations. Op names the failed aspect.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrAnalysis }
