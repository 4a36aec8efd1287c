package mesh

import "fmt"

// Kind tags every error the kernel returns. Matching chazu-lignin's
// pkg/graph/validate.go ValidationError/ValidationSeverity taxonomy: a
// small enum plus a struct error carrying it and a human message, instead
// of one sentinel per failure site.
type Kind int

const (
	// StaleHandle: a handle whose generation no longer matches the pool.
	StaleHandle Kind = iota
	// BadPolygon: fewer than 3 vertices, a repeated vertex, or an
	// insertion that would make the mesh non-manifold.
	BadPolygon
	// NonManifold: an edit that would place a third face on a full edge,
	// or zip edges whose endpoints are incompatible.
	NonManifold
	// Degenerate: triangulation, plane-fit, or texture-basis solve lost
	// rank; the operator was skipped.
	Degenerate
	// Empty: operator called with an empty set (no-op success).
	Empty
	// OutOfRange: numeric argument outside its documented domain.
	OutOfRange
)

func (k Kind) String() string {
	switch k {
	case StaleHandle:
		return "stale_handle"
	case BadPolygon:
		return "bad_polygon"
	case NonManifold:
		return "non_manifold"
	case Degenerate:
		return "degenerate"
	case Empty:
		return "empty"
	case OutOfRange:
		return "out_of_range"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the kernel's tagged public error type: every mutator returns
// one of these (or nil) instead of unwinding. Precondition failures leave
// the mesh untouched.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func newErr(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// NewError is newErr exported for other packages in this module (e.g.
// pkg/texture, pkg/rebuild) that need to report a kernel error of a
// given Kind without duplicating the taxonomy.
func NewError(k Kind, format string, args ...any) *Error {
	return newErr(k, format, args...)
}

// Is reports whether err is a *Error of kind k, for errors.Is-style checks
// without exposing the concrete struct to callers who only care about the
// taxonomy.
func Is(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
