package mesh

import (
	"github.com/chazu/meshkernel/pkg/handle"
	"github.com/samber/lo"
)

// Topology is the manifold half-edge graph (spec.md §4.2). It owns no
// geometry or attributes of its own; Mesh composes a Topology with the
// standard streams and routes editing operators through it, exactly as
// spec.md §2's data-flow line describes ("user edits call Component 4,
// which routes to 2").
//
// Representation: three handle.Pool instances (one per element kind) for
// generation-checked liveness, backing parallel slices indexed by
// handle.Index() for adjacency. No owning pointers anywhere, per
// spec.md §9 ("Cyclic graph (half-edge). Arena-allocated indices
// everywhere").
type Topology struct {
	vertPool handle.Pool
	hePool   handle.Pool
	facePool handle.Pool

	// vertEdge[i] is one half-edge outgoing from vertex i (its start
	// vertex, equivalently end_vertex(twin(h))) — the anchor for walking
	// that vertex's fan. Nil for isolated vertices.
	vertEdge []HalfEdgeHandle

	heEnd  []VertexHandle // end_vertex(h)
	heTwin []HalfEdgeHandle
	heNext []HalfEdgeHandle
	hePrev []HalfEdgeHandle
	heFace []FaceHandle

	// faceEdge[i] is one half-edge of face i's boundary loop.
	faceEdge []HalfEdgeHandle

	streams []rawStream
}

// NewTopology returns an empty topology.
func NewTopology() *Topology {
	return &Topology{}
}

// registerStream ties a stream's lifetime to this topology's allocations;
// called by Mesh when it constructs its standard streams (spec.md §4.3:
// "Streams are registered at Mesh construction").
func (t *Topology) registerStream(s rawStream) {
	t.streams = append(t.streams, s)
}

func (t *Topology) growStreams(k ElementKind) {
	for _, s := range t.streams {
		if s.kind() == k {
			s.grow()
		}
	}
}

func (t *Topology) resetStreams(k ElementKind, index int) {
	for _, s := range t.streams {
		if s.kind() == k {
			s.reset(index)
		}
	}
}

// IsValidVertex, IsValidHalfEdge and IsValidFace are the liveness checks
// every public query/operator runs before touching adjacency slices.
func (t *Topology) IsValidVertex(v VertexHandle) bool   { return t.vertPool.IsValid(handle.Handle(v)) }
func (t *Topology) IsValidHalfEdge(h HalfEdgeHandle) bool {
	return t.hePool.IsValid(handle.Handle(h))
}
func (t *Topology) IsValidFace(f FaceHandle) bool { return t.facePool.IsValid(handle.Handle(f)) }

// AddVertex creates an isolated vertex with no incident edges.
func (t *Topology) AddVertex() VertexHandle {
	h := t.vertPool.Alloc()
	idx := int(h.Index())
	if idx == len(t.vertEdge) {
		t.vertEdge = append(t.vertEdge, 0)
	} else {
		t.vertEdge[idx] = 0
	}
	t.growStreams(KindVertex)
	return VertexHandle(h)
}

func (t *Topology) allocHalfEdge() HalfEdgeHandle {
	h := t.hePool.Alloc()
	idx := int(h.Index())
	grow := func(s *[]HalfEdgeHandle) {
		if idx == len(*s) {
			*s = append(*s, 0)
		}
	}
	grow(&t.heTwin)
	grow(&t.heNext)
	grow(&t.hePrev)
	if idx == len(t.heEnd) {
		t.heEnd = append(t.heEnd, 0)
	} else {
		t.heEnd[idx] = 0
	}
	if idx == len(t.heFace) {
		t.heFace = append(t.heFace, FaceHandle(0))
	} else {
		t.heFace[idx] = FaceHandle(0)
	}
	t.growStreams(KindHalfEdge)
	return HalfEdgeHandle(h)
}

func (t *Topology) freeHalfEdge(h HalfEdgeHandle) {
	t.hePool.Free(handle.Handle(h))
	t.resetStreams(KindHalfEdge, int(handle.Handle(h).Index()))
}

// Twin returns the other half-edge of h's full edge.
func (t *Topology) Twin(h HalfEdgeHandle) HalfEdgeHandle { return t.heTwin[handle.Handle(h).Index()] }

// Next returns the next half-edge around h's face loop.
func (t *Topology) Next(h HalfEdgeHandle) HalfEdgeHandle { return t.heNext[handle.Handle(h).Index()] }

// Prev returns the previous half-edge around h's face loop.
func (t *Topology) Prev(h HalfEdgeHandle) HalfEdgeHandle { return t.hePrev[handle.Handle(h).Index()] }

// FaceOf returns h's face, or InvalidFace on an open boundary.
func (t *Topology) FaceOf(h HalfEdgeHandle) FaceHandle { return t.heFace[handle.Handle(h).Index()] }

// EndVertex returns the vertex h points to.
func (t *Topology) EndVertex(h HalfEdgeHandle) VertexHandle { return t.heEnd[handle.Handle(h).Index()] }

// StartVertex returns the vertex h originates from: the end of prev(h).
func (t *Topology) StartVertex(h HalfEdgeHandle) VertexHandle {
	return t.EndVertex(t.Prev(h))
}

// FullEdge returns the canonical EdgeHandle for h's full edge: whichever
// of h, twin(h) has the smaller pool index.
func (t *Topology) FullEdge(h HalfEdgeHandle) EdgeHandle {
	tw := t.Twin(h)
	if handle.Handle(h).Index() <= handle.Handle(tw).Index() {
		return EdgeHandle(h)
	}
	return EdgeHandle(tw)
}

// HalfEdgesOf returns the two half-edges making up e, in (low, high) index
// order; the second is zero if e somehow only resolves to one (never
// true for a live edge, but guards a stale handle).
func (t *Topology) HalfEdgesOf(e EdgeHandle) (HalfEdgeHandle, HalfEdgeHandle) {
	h := HalfEdgeHandle(e)
	return h, t.Twin(h)
}

// VerticesOfEdge returns the two endpoints of e.
func (t *Topology) VerticesOfEdge(e EdgeHandle) (VertexHandle, VertexHandle) {
	h, tw := t.HalfEdgesOf(e)
	return t.EndVertex(tw), t.EndVertex(h)
}

// FacesOfEdge returns the (up to two) faces incident to e; InvalidFace
// for an open side.
func (t *Topology) FacesOfEdge(e EdgeHandle) (FaceHandle, FaceHandle) {
	h, tw := t.HalfEdgesOf(e)
	return t.FaceOf(h), t.FaceOf(tw)
}

// OutHalfEdges returns every half-edge starting at v. It walks twin∘prev
// from v's anchor half-edge; where that walk crosses an open boundary it
// passes through half-edges of neighbouring vertices, which are skipped.
func (t *Topology) OutHalfEdges(v VertexHandle) []HalfEdgeHandle {
	start := t.vertEdge[handle.Handle(v).Index()]
	if start.IsNil() {
		return nil
	}
	var out []HalfEdgeHandle
	h := start
	for i := 0; i < maxFanSteps; i++ {
		if t.EndVertex(t.Twin(h)) == v {
			out = append(out, h)
		}
		h = t.Twin(t.Prev(h))
		if h == start {
			break
		}
	}
	return out
}

// InHalfEdges returns every half-edge ending at v.
func (t *Topology) InHalfEdges(v VertexHandle) []HalfEdgeHandle {
	return lo.Map(t.OutHalfEdges(v), func(h HalfEdgeHandle, _ int) HalfEdgeHandle { return t.Twin(h) })
}

// maxFanSteps bounds vertex-fan walks against a corrupted ring (defense
// in depth; a valid manifold mesh always terminates well before this).
const maxFanSteps = 1 << 20

// VerticesOfFace returns f's boundary vertices in loop order.
func (t *Topology) VerticesOfFace(f FaceHandle) []VertexHandle {
	return lo.Map(t.EdgesOfFace(f), func(h HalfEdgeHandle, _ int) VertexHandle { return t.EndVertex(h) })
}

// EdgesOfFace returns f's boundary half-edges in loop order.
func (t *Topology) EdgesOfFace(f FaceHandle) []HalfEdgeHandle {
	start := t.faceEdge[handle.Handle(f).Index()]
	if start.IsNil() {
		return nil
	}
	var out []HalfEdgeHandle
	h := start
	for i := 0; i < maxFanSteps; i++ {
		out = append(out, h)
		h = t.Next(h)
		if h == start {
			break
		}
	}
	return out
}

// EdgeBetween returns the full edge connecting a and b, if one exists.
func (t *Topology) EdgeBetween(a, b VertexHandle) (EdgeHandle, bool) {
	for _, h := range t.OutHalfEdges(a) {
		if t.EndVertex(h) == b {
			return t.FullEdge(h), true
		}
	}
	return 0, false
}

// AddFace creates a face from an ordered vertex loop of size N>=3,
// allocating 2N half-edges (twins included) and linking them into the
// existing vertex fans (spec.md §4.2).
func (t *Topology) AddFace(verts []VertexHandle) (FaceHandle, error) {
	n := len(verts)
	if n < 3 {
		return 0, newErr(BadPolygon, "add_face requires at least 3 vertices, got %d", n)
	}
	seen := make(map[VertexHandle]bool, n)
	for _, v := range verts {
		if !t.IsValidVertex(v) {
			return 0, newErr(StaleHandle, "add_face: vertex %v is not live", v)
		}
		if seen[v] {
			return 0, newErr(BadPolygon, "add_face: vertex %v repeats in the loop", v)
		}
		seen[v] = true
	}

	// Reuse an existing full edge between two consecutive loop vertices
	// when one is already present and open; otherwise a fresh twin pair
	// is allocated. Manifoldness (I4) requires that no full edge gains a
	// second face in the same orientation.
	type edgeSlot struct {
		h       HalfEdgeHandle
		existed bool
	}
	slots := make([]edgeSlot, n)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		if e, ok := t.EdgeBetween(a, b); ok {
			h, tw := t.HalfEdgesOf(e)
			var oriented HalfEdgeHandle
			if t.EndVertex(h) == b {
				oriented = h
			} else {
				oriented = tw
			}
			if !t.FaceOf(oriented).IsNil() {
				return 0, newErr(NonManifold, "add_face: edge %v->%v already has a face on this side", a, b)
			}
			slots[i] = edgeSlot{h: oriented, existed: true}
		}
	}

	for i := 0; i < n; i++ {
		if slots[i].existed {
			// A reused open half-edge may still sit in the next/prev loop
			// of a removed face; unlink it there so next and prev stay
			// inverse once it joins the new face below.
			cur := slots[i].h
			p, nx := t.Prev(cur), t.Next(cur)
			t.heNext[handle.Handle(p).Index()] = nx
			t.hePrev[handle.Handle(nx).Index()] = p
			continue
		}
		a, b := verts[i], verts[(i+1)%n]
		h := t.allocHalfEdge()
		tw := t.allocHalfEdge()
		t.heTwin[handle.Handle(h).Index()] = tw
		t.heTwin[handle.Handle(tw).Index()] = h
		t.heEnd[handle.Handle(h).Index()] = b
		t.heEnd[handle.Handle(tw).Index()] = a
		// tw has no face yet (it may gain one later, or stay a boundary
		// half-edge forever); self-loop it so vertex-fan rotation can
		// still safely bounce off it via twin(prev(tw))=twin(tw)=h.
		t.heNext[handle.Handle(tw).Index()] = tw
		t.hePrev[handle.Handle(tw).Index()] = tw
		slots[i] = edgeSlot{h: h}
		if t.vertEdge[handle.Handle(a).Index()].IsNil() {
			t.vertEdge[handle.Handle(a).Index()] = h
		}
		if t.vertEdge[handle.Handle(b).Index()].IsNil() {
			t.vertEdge[handle.Handle(b).Index()] = tw
		}
	}

	fh := t.facePool.Alloc()
	idx := int(fh.Index())
	if idx == len(t.faceEdge) {
		t.faceEdge = append(t.faceEdge, 0)
	} else {
		t.faceEdge[idx] = 0
	}
	t.growStreams(KindFace)
	f := FaceHandle(fh)
	t.faceEdge[idx] = slots[0].h

	for i := 0; i < n; i++ {
		cur := slots[i].h
		nxt := slots[(i+1)%n].h
		t.heFace[handle.Handle(cur).Index()] = f
		t.heNext[handle.Handle(cur).Index()] = nxt
		t.hePrev[handle.Handle(nxt).Index()] = cur
	}
	return f, nil
}

// RemoveFace converts f's boundary half-edges to open (face=Invalid),
// removing the face cycle. If keepVertices is false, vertices left
// isolated by the removal are also removed.
func (t *Topology) RemoveFace(f FaceHandle, keepVertices bool) error {
	if !t.IsValidFace(f) {
		return newErr(StaleHandle, "remove_face: face %v is not live", f)
	}
	edges := t.EdgesOfFace(f)
	for _, h := range edges {
		t.heFace[handle.Handle(h).Index()] = InvalidFace
	}
	t.facePool.Free(handle.Handle(f))
	t.resetStreams(KindFace, int(handle.Handle(f).Index()))

	if !keepVertices {
		for _, h := range edges {
			v := t.EndVertex(h)
			if len(t.OutHalfEdges(v)) == 0 {
				t.removeIsolatedVertex(v)
			}
		}
	}
	return nil
}

func (t *Topology) removeIsolatedVertex(v VertexHandle) {
	t.vertPool.Free(handle.Handle(v))
	t.resetStreams(KindVertex, int(handle.Handle(v).Index()))
}

// RemoveEdge removes e by first removing both of its incident faces,
// then deleting the half-edge pair itself and repairing the vertex fan
// anchors.
func (t *Topology) RemoveEdge(e EdgeHandle, keepVertices bool) error {
	h, tw := t.HalfEdgesOf(e)
	if !t.IsValidHalfEdge(h) {
		return newErr(StaleHandle, "remove_edge: edge %v is not live", e)
	}
	if f := t.FaceOf(h); !f.IsNil() {
		if err := t.RemoveFace(f, true); err != nil {
			return err
		}
	}
	if f := t.FaceOf(tw); !f.IsNil() {
		if err := t.RemoveFace(f, true); err != nil {
			return err
		}
	}

	a, b := t.EndVertex(tw), t.EndVertex(h)
	t.unlinkFromFan(a, h)
	t.unlinkFromFan(b, tw)
	t.freeHalfEdge(h)
	t.freeHalfEdge(tw)

	if !keepVertices {
		for _, v := range []VertexHandle{a, b} {
			if t.IsValidVertex(v) && len(t.OutHalfEdges(v)) == 0 {
				t.removeIsolatedVertex(v)
			}
		}
	}
	return nil
}

// unlinkFromFan repoints v's fan anchor away from outgoing if it was the
// anchor. Safe to call while outgoing's twin relationships are still
// intact (it is only removed from the topology afterwards).
func (t *Topology) unlinkFromFan(v VertexHandle, outgoing HalfEdgeHandle) {
	idx := handle.Handle(v).Index()
	if t.vertEdge[idx] != outgoing {
		return
	}
	for _, cand := range t.OutHalfEdges(v) {
		if cand != outgoing {
			t.vertEdge[idx] = cand
			return
		}
	}
	t.vertEdge[idx] = 0
}

// RemoveVertex removes v and all adjacent half-edges/faces. If
// removeLooseEdges, also strips the resulting floating edges (open edges
// left with no face on either side after the incident faces are gone).
func (t *Topology) RemoveVertex(v VertexHandle, removeLooseEdges bool) error {
	if !t.IsValidVertex(v) {
		return newErr(StaleHandle, "remove_vertex: vertex %v is not live", v)
	}
	if !removeLooseEdges && len(t.OutHalfEdges(v)) > 0 {
		return newErr(OutOfRange, "remove_vertex: vertex %v still has incident edges and remove_loose_edges is false", v)
	}
	for {
		out := t.OutHalfEdges(v)
		if len(out) == 0 {
			break
		}
		e := t.FullEdge(out[0])
		if err := t.RemoveEdge(e, true); err != nil {
			return err
		}
	}
	if t.IsValidVertex(v) {
		t.removeIsolatedVertex(v)
	}
	return nil
}

// AddVertexToEdge splits full edge e by inserting a new vertex at its
// midpoint; replaces the half-edge pair with two pairs and updates face
// loops on both sides. Geometry (where "midpoint" actually lands) is the
// caller's responsibility — Mesh.AddVertexToEdge sets the position and
// interpolates texcoords after calling this.
func (t *Topology) AddVertexToEdge(e EdgeHandle) (VertexHandle, EdgeHandle, EdgeHandle, error) {
	h, tw := t.HalfEdgesOf(e)
	if !t.IsValidHalfEdge(h) {
		return 0, 0, 0, newErr(StaleHandle, "add_vertex_to_edge: edge %v is not live", e)
	}
	a, b := t.EndVertex(tw), t.EndVertex(h)
	fh, ft := t.FaceOf(h), t.FaceOf(tw)

	mid := t.AddVertex()

	h2 := t.allocHalfEdge()
	tw2 := t.allocHalfEdge()
	t.heTwin[handle.Handle(h2).Index()] = tw2
	t.heTwin[handle.Handle(tw2).Index()] = h2
	t.heEnd[handle.Handle(h2).Index()] = b
	t.heEnd[handle.Handle(tw2).Index()] = mid
	t.heEnd[handle.Handle(h).Index()] = mid
	t.heEnd[handle.Handle(tw).Index()] = a

	// mid gains two outgoing half-edges (h2 towards b, tw towards a once
	// spliced below); b's old outgoing anchor tw is repointed to tw2,
	// which now occupies tw's former position in the vertex fan.
	t.vertEdge[handle.Handle(mid).Index()] = h2
	if t.vertEdge[handle.Handle(b).Index()] == tw {
		t.vertEdge[handle.Handle(b).Index()] = tw2
	}

	// h : a -> mid (face fh), h2 : mid -> b (face fh)
	// tw2: b -> mid (face ft), tw : mid -> a (face ft)
	t.heFace[handle.Handle(h2).Index()] = fh
	t.heFace[handle.Handle(tw2).Index()] = ft

	if !fh.IsNil() {
		// h retained its place in fh's loop; splice h2 in right after it.
		nextAfterH := t.Next(h)
		t.heNext[handle.Handle(h).Index()] = h2
		t.hePrev[handle.Handle(h2).Index()] = h
		t.heNext[handle.Handle(h2).Index()] = nextAfterH
		t.hePrev[handle.Handle(nextAfterH).Index()] = h2
	} else {
		// h was an open, self-looped boundary half-edge. h2 takes over
		// that role for the b-side; self-loop it the same way a fresh
		// boundary half-edge is self-looped in AddFace.
		t.heNext[handle.Handle(h2).Index()] = h2
		t.hePrev[handle.Handle(h2).Index()] = h2
	}

	if !ft.IsNil() {
		// tw retained its place in ft's loop; splice tw2 in right before it.
		prevBeforeTw := t.Prev(tw)
		t.heNext[handle.Handle(prevBeforeTw).Index()] = tw2
		t.hePrev[handle.Handle(tw2).Index()] = prevBeforeTw
		t.heNext[handle.Handle(tw2).Index()] = tw
		t.hePrev[handle.Handle(tw).Index()] = tw2
	} else {
		t.heNext[handle.Handle(tw2).Index()] = tw2
		t.hePrev[handle.Handle(tw2).Index()] = tw2
	}

	e1 := t.FullEdge(h)
	e2 := t.FullEdge(h2)
	return mid, e1, e2, nil
}

// CollapseEdge removes full edge e by merging its end vertex b into its
// start vertex a (of the canonical half-edge) and removing the faces on
// both sides of e; where the merged vertex is placed is left to
// Mesh.CollapseEdge. Reports full edges that became identified with
// other edges as a result (two previously-distinct edges sharing both
// endpoints after the merge).
func (t *Topology) CollapseEdge(e EdgeHandle) (VertexHandle, []EdgeIdentification, error) {
	h, tw := t.HalfEdgesOf(e)
	if !t.IsValidHalfEdge(h) {
		return 0, nil, newErr(StaleHandle, "collapse_edge: edge %v is not live", e)
	}
	a, b := t.EndVertex(tw), t.EndVertex(h)

	if t.isBowTie(h) {
		return 0, nil, newErr(NonManifold, "collapse_edge: edge %v borders a degenerate bow-tie", e)
	}

	// Repoint every half-edge ending at b to end at a instead, then drop
	// the collapsing edge's own faces (degenerate to a point) and the
	// half-edge pair.
	before := make(map[EdgeHandle][2]VertexHandle)
	for _, out := range t.OutHalfEdges(b) {
		fe := t.FullEdge(out)
		if fe == e {
			continue
		}
		x, y := t.VerticesOfEdge(fe)
		before[fe] = [2]VertexHandle{x, y}
	}

	bOut := append([]HalfEdgeHandle(nil), t.OutHalfEdges(b)...)
	var reanchor HalfEdgeHandle
	for _, out := range bOut {
		if t.FullEdge(out) == e {
			continue
		}
		in := t.Twin(out)
		t.heEnd[handle.Handle(in).Index()] = a
		reanchor = out
	}
	if t.vertEdge[handle.Handle(b).Index()] == t.Twin(h) {
		t.vertEdge[handle.Handle(b).Index()] = 0
	}

	for _, f := range []FaceHandle{t.FaceOf(h), t.FaceOf(tw)} {
		if !f.IsNil() {
			_ = t.RemoveFace(f, true)
		}
	}
	t.unlinkFromFan(a, h)
	t.freeHalfEdge(h)
	t.freeHalfEdge(tw)
	if t.IsValidVertex(b) {
		t.removeIsolatedVertex(b)
	}
	if t.vertEdge[handle.Handle(a).Index()].IsNil() && !reanchor.IsNil() && t.IsValidHalfEdge(reanchor) {
		t.vertEdge[handle.Handle(a).Index()] = reanchor
	}

	var identified []EdgeIdentification
	for fe, verts := range before {
		if !t.IsValidHalfEdge(HalfEdgeHandle(fe)) {
			continue
		}
		nx, ny := t.VerticesOfEdge(fe)
		if (nx == verts[0] && ny == verts[1]) || (nx == verts[1] && ny == verts[0]) {
			continue
		}
		identified = append(identified, EdgeIdentification{Old: fe, New: t.FullEdge(HalfEdgeHandle(fe))})
	}
	return a, identified, nil
}

// EdgeIdentification records that an old edge handle became the same
// edge as a different (new) handle as a side effect of a collapse.
type EdgeIdentification struct {
	Old EdgeHandle
	New EdgeHandle
}

// isBowTie detects the degenerate case spec.md B3 calls out: collapsing e
// would merge two faces that already share both of e's endpoints through
// a second, different edge, producing a non-manifold bow-tie.
func (t *Topology) isBowTie(h HalfEdgeHandle) bool {
	a, b := t.EndVertex(t.Twin(h)), t.EndVertex(h)
	count := 0
	for _, out := range t.OutHalfEdges(a) {
		if t.EndVertex(out) == b {
			count++
		}
	}
	return count > 1
}

// MergeVertices welds a and b. If a full edge already connects them, this
// behaves like CollapseEdge; otherwise it welds the two vertex fans
// together (re-pointing every half-edge incident to b onto a). Fails
// with NonManifold if welding would place two faces on the same oriented
// full edge.
func (t *Topology) MergeVertices(a, b VertexHandle) (VertexHandle, error) {
	if !t.IsValidVertex(a) || !t.IsValidVertex(b) {
		return 0, newErr(StaleHandle, "merge_vertices: a stale vertex handle was supplied")
	}
	if a == b {
		return a, nil
	}
	if e, ok := t.EdgeBetween(a, b); ok {
		v, _, err := t.CollapseEdge(e)
		return v, err
	}

	bOut := append([]HalfEdgeHandle(nil), t.OutHalfEdges(b)...)
	for _, out := range bOut {
		other := t.EndVertex(out)
		if existing, ok := t.EdgeBetween(a, other); ok {
			h1, _ := t.HalfEdgesOf(existing)
			if !t.FaceOf(h1).IsNil() && !t.FaceOf(t.Twin(h1)).IsNil() {
				return 0, newErr(NonManifold, "merge_vertices: welding %v into %v would double-cover edge to %v", b, a, other)
			}
		}
	}

	for _, out := range bOut {
		in := t.Twin(out)
		t.heEnd[handle.Handle(in).Index()] = a
	}
	t.vertEdge[handle.Handle(b).Index()] = 0
	if t.vertEdge[handle.Handle(a).Index()].IsNil() && len(bOut) > 0 {
		t.vertEdge[handle.Handle(a).Index()] = bOut[0]
	}
	t.removeIsolatedVertex(b)
	return a, nil
}

// FlipAllFaces reverses every live face's half-edge cycle, adjusting
// next/prev pointers (twin pairing and attribute streams are unaffected
// by orientation, satisfying L3's round-trip).
func (t *Topology) FlipAllFaces() {
	var live []FaceHandle
	t.facePool.ForEachLive(func(index, generation uint32) {
		live = append(live, FaceHandle(handle.Make(index, generation)))
	})
	for _, f := range live {
		edges := t.EdgesOfFace(f)
		n := len(edges)
		for j, h := range edges {
			prevIdx := (j - 1 + n) % n
			t.heNext[handle.Handle(h).Index()] = edges[prevIdx]
			t.hePrev[handle.Handle(edges[prevIdx]).Index()] = h
		}
	}
}

// boundaryHalfEdge returns e's two half-edges in (open, faced) order when
// e is a genuine boundary edge: exactly one side carries a face. ok is
// false for a fully interior edge (both sides faced) or a fully detached
// one (neither side faced) — both merge_edges and bridge_edges are scoped
// to the common single-face-boundary case.
func (t *Topology) boundaryHalfEdge(e EdgeHandle) (open, faced HalfEdgeHandle, ok bool) {
	h, tw := t.HalfEdgesOf(e)
	hf, twf := t.FaceOf(h), t.FaceOf(tw)
	switch {
	case hf.IsNil() && !twf.IsNil():
		return h, tw, true
	case twf.IsNil() && !hf.IsNil():
		return tw, h, true
	default:
		return 0, 0, false
	}
}

// MergeEdges zips two boundary edges into one, welding their endpoint
// pairs and letting the face that used to border eb take over ea's open
// side (spec.md §4.2). Endpoints are welded in reversed correspondence
// (ea's start to eb's end and vice versa), matching the two boundary
// loops running opposite directions when a seam is stitched shut. Scoped
// to the common case: both edges must each border exactly one face,
// otherwise this returns NonManifold.
func (t *Topology) MergeEdges(ea, eb EdgeHandle) (VertexHandle, VertexHandle, error) {
	if !t.IsValidHalfEdge(HalfEdgeHandle(ea)) || !t.IsValidHalfEdge(HalfEdgeHandle(eb)) {
		return 0, 0, newErr(StaleHandle, "merge_edges: a stale edge handle was supplied")
	}
	openA, _, okA := t.boundaryHalfEdge(ea)
	openB, facedB, okB := t.boundaryHalfEdge(eb)
	if !okA || !okB {
		return 0, 0, newErr(NonManifold, "merge_edges: edges %v and %v must each border exactly one face", ea, eb)
	}

	a0, a1 := t.EndVertex(t.Twin(openA)), t.EndVertex(openA)
	b0, b1 := t.EndVertex(t.Twin(openB)), t.EndVertex(openB)

	v1, err := t.MergeVertices(a0, b1)
	if err != nil {
		return 0, 0, err
	}
	v2, err := t.MergeVertices(a1, b0)
	if err != nil {
		return 0, 0, err
	}

	// ea and eb now both run between v1 and v2, with facedB's face on the
	// same side as ea's still-open half (openA). Splice that face onto
	// openA and discard eb's half-edge pair.
	f := t.FaceOf(facedB)
	prev, next := t.Prev(facedB), t.Next(facedB)
	openAIdx := handle.Handle(openA).Index()
	t.heFace[openAIdx] = f
	t.heEnd[openAIdx] = t.EndVertex(facedB)
	t.heNext[handle.Handle(prev).Index()] = openA
	t.hePrev[openAIdx] = prev
	t.heNext[openAIdx] = next
	t.hePrev[handle.Handle(next).Index()] = openA
	if t.faceEdge[handle.Handle(f).Index()] == facedB {
		t.faceEdge[handle.Handle(f).Index()] = openA
	}

	a, b := t.EndVertex(facedB), t.EndVertex(openB)
	t.unlinkFromFan(a, openB)
	t.unlinkFromFan(b, facedB)
	t.freeHalfEdge(openB)
	t.freeHalfEdge(facedB)

	return v1, v2, nil
}

// BridgeEdges adds a single face connecting two open edges: a quad when
// all four endpoints are distinct, or a triangle when the edges already
// share a vertex (spec.md §4.2). Both edges must border exactly one face;
// add_face's own manifoldness and degeneracy checks apply to the
// resulting loop, surfacing as BadPolygon on failure (spec.md's BadPair).
// A triangle forms only where one edge's open side ends at the shared
// vertex and the other's begins there; two open sides that both leave (or
// both enter) the shared vertex give a loop that repeats it, which
// AddFace rejects with BadPolygon.
func (t *Topology) BridgeEdges(ea, eb EdgeHandle) (FaceHandle, error) {
	if !t.IsValidHalfEdge(HalfEdgeHandle(ea)) || !t.IsValidHalfEdge(HalfEdgeHandle(eb)) {
		return 0, newErr(StaleHandle, "bridge_edges: a stale edge handle was supplied")
	}
	openA, _, okA := t.boundaryHalfEdge(ea)
	openB, _, okB := t.boundaryHalfEdge(eb)
	if !okA || !okB {
		return 0, newErr(BadPolygon, "bridge_edges: edges %v and %v must each border exactly one face", ea, eb)
	}
	u0, u1 := t.EndVertex(t.Twin(openA)), t.EndVertex(openA)
	w0, w1 := t.EndVertex(t.Twin(openB)), t.EndVertex(openB)

	var loop []VertexHandle
	switch {
	case u0 == w1 && u1 == w0:
		return 0, newErr(BadPolygon, "bridge_edges: %v and %v already bound the same two vertices", ea, eb)
	case u1 == w0:
		loop = []VertexHandle{u0, u1, w1}
	case u0 == w1:
		loop = []VertexHandle{u0, u1, w0}
	default:
		loop = []VertexHandle{u0, u1, w0, w1}
	}
	return t.AddFace(loop)
}

// VertexCount, EdgeCount and FaceCount support the Euler-characteristic
// testable property P3.
func (t *Topology) VertexCount() int { return t.vertPool.Len() }
func (t *Topology) FaceCount() int   { return t.facePool.Len() }

// EdgeCount counts full edges (half-edge count / 2).
func (t *Topology) EdgeCount() int { return t.hePool.Len() / 2 }
