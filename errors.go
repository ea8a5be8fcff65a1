package skemagen

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnrepresentableType = "unrepresentable_type"
	CodeUnknownAnnotation   = "unknown_annotation"
	CodeAnnotationConflict  = "annotation_conflict"
	CodeCyclicReference     = "cyclic_reference"
	CodeTooManyTypes        = "too_many_types"
	CodeNullableReference   = "nullable_reference"
)

// Issue represents a single generation entry. Fatal issues abort the whole
// Generate call; warning-severity issues are recorded on the Result.
type Issue struct {
	Path    string // JSON-Pointer-like member path (for example: /address/zone).
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"type":"Building"}) for
	// i18n and observability.
	Params map[string]any
}

// Issues is a collection of generation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unrepresentable_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
