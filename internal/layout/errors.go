package layout

import (
	"errors"
	"fmt"
)

// The two error tiers of the tree. Invariant violations mean a caller
// attempted a structurally illegal edit and indicate a programming bug;
// not-found outcomes are ordinary runtime conditions the caller can
// recover from.
var (
	// ErrInvariant tags structurally illegal tree edits: view under
	// root, workspace under container, removing root or a workspace by
	// the generic path.
	ErrInvariant = errors.New("layout invariant violation")

	// ErrNotFound tags expected absences: child not present on remove,
	// no view matching a handle on unmap, parent already gone.
	ErrNotFound = errors.New("not found")
)

// TreeError is the error type returned by tree mutations. It wraps one
// of the tier sentinels so callers can route on errors.Is.
type TreeError struct {
	Kind error
	Op   string
	Msg  string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *TreeError) Unwrap() error {
	return e.Kind
}

func invariantErr(op, format string, args ...interface{}) *TreeError {
	return &TreeError{Kind: ErrInvariant, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func notFoundErr(op, format string, args ...interface{}) *TreeError {
	return &TreeError{Kind: ErrNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// invariant panics with an invariant-tier error. Constructors use this
// for illegal edges: those are bugs in the caller, not recoverable
// runtime conditions, and must surface immediately in testing.
func invariant(op, format string, args ...interface{}) {
	panic(invariantErr(op, format, args...))
}
