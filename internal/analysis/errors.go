package analysis

import (
	"errors"
	"fmt"

	"codeappraise/internal/util/jsonutil"
)

// ExtractError means no recoverable structured result could be produced
// from the raw response text, even after the repair chain. It is
// contained within the runner's retry loop and never escapes except
// wrapped inside a CategoryError.
type ExtractError struct {
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("analysis: extraction failed: %v", e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// Excerpts returns the head and tail of the offending raw text when the
// underlying parse error carries them.
func (e *ExtractError) Excerpts() (head, tail string) {
	var pe *jsonutil.ParseError
	if errors.As(e.Err, &pe) {
		return pe.Head, pe.Tail
	}
	return "", ""
}

// CategoryError is the terminal failure of one category run: the retry
// budget was exhausted. It wraps the last extraction failure.
type CategoryError struct {
	Category Category
	Attempts int
	Err      error
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("analysis: %s failed after %d attempts: %v", e.Category, e.Attempts, e.Err)
}

func (e *CategoryError) Unwrap() error { return e.Err }
