package mesh

// ElementKind selects which handle space a Stream is indexed by.
type ElementKind int

const (
	KindVertex ElementKind = iota
	KindHalfEdge
	KindFace
)

// rawStream is the non-generic interface the topology holds so it can
// grow/tombstone every registered stream on allocation/free without
// knowing each stream's element type T (spec.md §4.3: "Streams are
// registered at Mesh construction ... kept in sync with Topology on
// add/remove").
type rawStream interface {
	kind() ElementKind
	grow()
	reset(index int)
}

// Stream is a named, typed, per-element dense array. Index i holds the
// attribute value for the live or tombstoned handle at slot i in the
// corresponding handle.Pool; Topology keeps every registered stream's
// length equal to the pool's capacity.
type Stream[T any] struct {
	name    string
	k       ElementKind
	values  []T
	zero    T
}

// NewStream creates a stream of the given name and kind, sized to
// current, so it satisfies invariant I5 (no dangling streams) the moment
// it is registered against a non-empty topology.
func NewStream[T any](name string, k ElementKind, current int) *Stream[T] {
	return &Stream[T]{name: name, k: k, values: make([]T, current)}
}

func (s *Stream[T]) Name() string      { return s.name }
func (s *Stream[T]) kind() ElementKind { return s.k }

func (s *Stream[T]) grow() {
	s.values = append(s.values, s.zero)
}

func (s *Stream[T]) reset(index int) {
	if index >= 0 && index < len(s.values) {
		s.values[index] = s.zero
	}
}

// Get reads the value at index. Callers go through Mesh/Topology, which
// validate the handle generation first (spec.md: "user code never reads
// raw slots — always via handles").
func (s *Stream[T]) Get(index int) T {
	if index < 0 || index >= len(s.values) {
		return s.zero
	}
	return s.values[index]
}

// Set writes the value at index.
func (s *Stream[T]) Set(index int, v T) {
	if index < 0 || index >= len(s.values) {
		return
	}
	s.values[index] = v
}

func (s *Stream[T]) Len() int { return len(s.values) }
