package mesh

import "github.com/chazu/meshkernel/pkg/handle"

// Element-kind handle types, each wrapping the shared handle.Handle the
// same way chazu-lignin/pkg/graph/types.go wraps a primitive per semantic
// kind (NodeID string, PartID string, SolidID string): the underlying
// representation is identical, but the Go type system keeps a
// VertexHandle from being passed where a FaceHandle is expected.

type VertexHandle handle.Handle
type HalfEdgeHandle handle.Handle
type FaceHandle handle.Handle

// EdgeHandle names a full edge: the canonical representative of a
// {half-edge, twin} pair. It is always the lower-index half-edge of the
// pair, so EdgeHandle and HalfEdgeHandle share an index space without
// needing a separate pool.
type EdgeHandle handle.Handle

// InvalidFace is the sentinel used for a half-edge's face field when the
// half-edge sits on an open boundary (spec.md §3, Face::Invalid).
var InvalidFace = FaceHandle(0)

// indexOf extracts a handle's pool-slot index, the common path every
// stream accessor in mesh.go goes through.
func indexOf[H ~uint64](h H) uint32 { return handle.Handle(h).Index() }

func (v VertexHandle) IsNil() bool   { return handle.Handle(v).IsNil() }
func (h HalfEdgeHandle) IsNil() bool { return handle.Handle(h).IsNil() }
func (f FaceHandle) IsNil() bool     { return handle.Handle(f).IsNil() }
func (e EdgeHandle) IsNil() bool     { return handle.Handle(e).IsNil() }

// SmoothingFlag tags a half-edge's contribution to normal smoothing at
// its full edge (spec.md §3, §4.7).
type SmoothingFlag int

const (
	SmoothingDefault SmoothingFlag = iota
	SmoothingHard
	SmoothingSoft
)

// Connectivity classifies an edge list's shape (spec.md §4.2).
type Connectivity int

const (
	ConnNone Connectivity = iota
	ConnList
	ConnLoop
	ConnMixed
)

func (c Connectivity) String() string {
	switch c {
	case ConnNone:
		return "none"
	case ConnList:
		return "list"
	case ConnLoop:
		return "loop"
	default:
		return "mixed"
	}
}
