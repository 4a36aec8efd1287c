package mesh

import (
	"testing"

	"github.com/chazu/meshkernel/pkg/geom"
)

func buildUnitQuad(t *testing.T) (*Mesh, [4]VertexHandle, FaceHandle) {
	t.Helper()
	m := New()
	var v [4]VertexHandle
	v[0] = m.AddVertex(vec3E(0, 0, 0))
	v[1] = m.AddVertex(vec3E(1, 0, 0))
	v[2] = m.AddVertex(vec3E(1, 1, 0))
	v[3] = m.AddVertex(vec3E(0, 1, 0))
	f, err := m.AddFace([]VertexHandle{v[0], v[1], v[2], v[3]})
	if err != nil {
		t.Fatalf("add_face failed: %v", err)
	}
	return m, v, f
}

// TestBevelFacesExtrudeQuad mirrors spec.md §8 scenario 3: bevel_faces on
// a single unit quad with create_connecting=true and an offset of
// (0,0,1) nets a closed box top, four unit-area sides, all edges/corners
// preserved on the original face.
func TestBevelFacesExtrudeQuad(t *testing.T) {
	m, _, f := buildUnitQuad(t)
	newFaces, connecting, corresp, err := m.BevelFaces([]FaceHandle{f}, true, vec3E(0, 0, 1))
	if err != nil {
		t.Fatalf("bevel_faces failed: %v", err)
	}
	if len(newFaces) != 1 {
		t.Fatalf("expected 1 new cap face, got %d", len(newFaces))
	}
	if len(connecting) != 4 {
		t.Fatalf("expected 4 connecting side faces, got %d", len(connecting))
	}
	if corresp[f] != newFaces[0] {
		t.Errorf("expected corresp[%v] == %v, got %v", f, newFaces[0], corresp[f])
	}

	total := len(m.AllFaces())
	if total != 6 {
		t.Errorf("expected 6 total faces after extrude, got %d", total)
	}

	for _, vv := range m.Topo.VerticesOfFace(newFaces[0]) {
		if z := m.Position(vv).Z; absf32(z-1) > 1e-5 {
			t.Errorf("expected new top face at z=1, got z=%v", z)
		}
	}

	for _, cf := range connecting {
		verts := m.Topo.VerticesOfFace(cf)
		positions := make([]geom.Vec3, len(verts))
		for i, vv := range verts {
			positions[i] = m.Position(vv)
		}
		area := geom.NormalFromTriangle(positions[0], positions[1], positions[2]).Length() * 0.5
		area += geom.NormalFromTriangle(positions[0], positions[2], positions[3]).Length() * 0.5
		if absf32(area-1) > 1e-4 {
			t.Errorf("expected side quad area 1, got %v", area)
		}
		n := m.FaceNormal(cf)
		if absf32(n.Z) > 1e-4 {
			t.Errorf("expected side normal in the XY plane, got %v", n)
		}
		if !(absf32(absf32(n.X)-1) < 1e-4 || absf32(absf32(n.Y)-1) < 1e-4) {
			t.Errorf("expected side normal aligned to world X/Y axis, got %v", n)
		}
	}

	// The original face survives untouched as the base of the extrusion.
	if !m.Topo.IsValidFace(f) {
		t.Errorf("expected original face to survive the extrude")
	}
}

func TestBridgeEdgesConnectsTwoOpenEdges(t *testing.T) {
	m, v, faces := buildUnitCube(t)
	if err := m.RemoveFace(faces[0], true); err != nil {
		t.Fatalf("remove_face failed: %v", err)
	}
	before := len(m.AllFaces())

	eA, ok := m.Topo.EdgeBetween(v[0], v[3])
	if !ok {
		t.Fatalf("expected an edge between v0 and v3")
	}
	eB, ok := m.Topo.EdgeBetween(v[2], v[1])
	if !ok {
		t.Fatalf("expected an edge between v2 and v1")
	}

	newFace, err := m.BridgeEdges(eA, eB)
	if err != nil {
		t.Fatalf("bridge_edges failed: %v", err)
	}
	if !m.Topo.IsValidFace(newFace) {
		t.Errorf("expected a live new face from bridge_edges")
	}
	if after := len(m.AllFaces()); after != before+1 {
		t.Errorf("expected bridge_edges to add exactly 1 face, got %d -> %d", before, after)
	}
}

// edgeTouching finds f's own boundary edge ending at v, walking f's loop
// directly rather than v's vertex fan — safe even when v also anchors a
// disjoint fan on another, unconnected face.
func edgeTouching(t *testing.T, m *Mesh, f FaceHandle, v VertexHandle) EdgeHandle {
	t.Helper()
	for _, h := range m.Topo.EdgesOfFace(f) {
		if m.Topo.EndVertex(h) == v {
			return m.Topo.FullEdge(h)
		}
	}
	t.Fatalf("no edge of face %v touches vertex %v", f, v)
	return 0
}

func TestBridgeEdgesSharedVertexMakesTriangle(t *testing.T) {
	m := New()
	a0 := m.AddVertex(vec3E(0, 0, 0))
	a1 := m.AddVertex(vec3E(1, 0, 0))
	a2 := m.AddVertex(vec3E(1, 1, 0))
	fa, err := m.AddFace([]VertexHandle{a0, a1, a2})
	if err != nil {
		t.Fatalf("add_face failed: %v", err)
	}
	b1 := m.AddVertex(vec3E(2, 2, 0))
	b2 := m.AddVertex(vec3E(3, 2, 0))
	fb, err := m.AddFace([]VertexHandle{a0, b1, b2})
	if err != nil {
		t.Fatalf("add_face failed: %v", err)
	}

	// eA's open side leaves a0 (a0->a2) and eB's open side enters a0
	// (b1->a0), so one consistently wound triangle can use both.
	eA := edgeTouching(t, m, fa, a0)
	eB := edgeTouching(t, m, fb, b1)
	newFace, err := m.BridgeEdges(eA, eB)
	if err != nil {
		t.Fatalf("bridge_edges failed: %v", err)
	}
	if n := len(m.Topo.VerticesOfFace(newFace)); n != 3 {
		t.Errorf("expected a triangle for edges sharing a vertex, got %d-gon", n)
	}
}

func TestMergeEdgesZipsTwoBoundaryEdges(t *testing.T) {
	m, _, fA := buildUnitQuad(t)
	b0 := m.AddVertex(vec3E(0, 0, 5))
	b1 := m.AddVertex(vec3E(1, 0, 5))
	b2 := m.AddVertex(vec3E(1, 1, 5))
	b3 := m.AddVertex(vec3E(0, 1, 5))
	_, err := m.AddFace([]VertexHandle{b0, b1, b2, b3})
	if err != nil {
		t.Fatalf("add_face failed: %v", err)
	}

	vertsBefore, facesBefore, edgesBefore := len(m.AllVertices()), len(m.AllFaces()), m.Topo.EdgeCount()

	vA0, vA1 := m.Topo.VerticesOfFace(fA)[0], m.Topo.VerticesOfFace(fA)[1]
	eA, _ := m.Topo.EdgeBetween(vA0, vA1)
	eB, _ := m.Topo.EdgeBetween(b0, b1)

	v1, v2, err := m.MergeEdges(eA, eB)
	if err != nil {
		t.Fatalf("merge_edges failed: %v", err)
	}
	if !m.Topo.IsValidVertex(v1) || !m.Topo.IsValidVertex(v2) {
		t.Fatalf("expected merge_edges to return live vertices")
	}

	if got := len(m.AllVertices()); got != vertsBefore-2 {
		t.Errorf("expected vertex count %d -> %d, got %d", vertsBefore, vertsBefore-2, got)
	}
	if got := len(m.AllFaces()); got != facesBefore {
		t.Errorf("expected face count unchanged at %d, got %d", facesBefore, got)
	}
	if got := m.Topo.EdgeCount(); got != edgesBefore-1 {
		t.Errorf("expected edge count %d -> %d, got %d", edgesBefore, edgesBefore-1, got)
	}

	merged, ok := m.Topo.EdgeBetween(v1, v2)
	if !ok {
		t.Fatalf("expected a live edge between the merged vertices")
	}
	f1, f2 := m.Topo.FacesOfEdge(merged)
	if f1.IsNil() || f2.IsNil() {
		t.Errorf("expected the zipped edge to border a face on both sides, got %v, %v", f1, f2)
	}
}

func TestSplitEdgesTearsInternalEdge(t *testing.T) {
	m, v, _ := buildUnitCube(t)
	e, ok := m.Topo.EdgeBetween(v[0], v[1])
	if !ok {
		t.Fatalf("expected an edge between v0 and v1")
	}
	fBefore1, fBefore2 := m.Topo.FacesOfEdge(e)
	if fBefore1.IsNil() || fBefore2.IsNil() {
		t.Fatalf("expected edge v0-v1 to be internal before split_edges")
	}

	vertsBefore := len(m.AllVertices())
	newEdges, err := m.SplitEdges([]EdgeHandle{e})
	if err != nil {
		t.Fatalf("split_edges failed: %v", err)
	}
	if len(newEdges) != 1 {
		t.Fatalf("expected 1 new edge, got %d", len(newEdges))
	}
	if got := len(m.AllVertices()); got != vertsBefore+2 {
		t.Errorf("expected vertex count %d -> %d, got %d", vertsBefore, vertsBefore+2, got)
	}

	f1, f2 := m.Topo.FacesOfEdge(e)
	if !((f1.IsNil()) != (f2.IsNil())) {
		t.Errorf("expected original edge to border exactly one face after the tear")
	}
	g1, g2 := m.Topo.FacesOfEdge(newEdges[0])
	if !((g1.IsNil()) != (g2.IsNil())) {
		t.Errorf("expected new edge to border exactly one face after the tear")
	}
}

// TestExtendEdgesZeroAmountKeepsPosition checks property B2: extending by
// 0 still updates the topology (new vertices/faces) but leaves the new
// vertices co-located with their originals.
func TestExtendEdgesZeroAmountKeepsPosition(t *testing.T) {
	m, v, f := buildUnitQuad(t)
	e01, _ := m.Topo.EdgeBetween(v[0], v[1])
	e12, _ := m.Topo.EdgeBetween(v[1], v[2])

	before := m.AllFaces()
	newEdges, err := m.ExtendEdges([]EdgeHandle{e01, e12}, 0)
	if err != nil {
		t.Fatalf("extend_edges failed: %v", err)
	}
	if len(newEdges) != 2 {
		t.Fatalf("expected 2 new edges, got %d", len(newEdges))
	}
	after := m.AllFaces()
	if len(after) != len(before)+2 {
		t.Errorf("expected +2 faces from extending 2 edges, got %d -> %d", len(before), len(after))
	}

	seen := map[FaceHandle]bool{}
	for _, bf := range before {
		seen[bf] = true
	}
	for _, af := range after {
		if seen[af] {
			continue
		}
		verts := m.Topo.VerticesOfFace(af)
		positions := make([]geom.Vec3, len(verts))
		for i, vv := range verts {
			positions[i] = m.Position(vv)
		}
		area := geom.NormalFromTriangle(positions[0], positions[1], positions[2]).Length() * 0.5
		area += geom.NormalFromTriangle(positions[0], positions[2], positions[3]).Length() * 0.5
		if area > 1e-6 {
			t.Errorf("expected a zero-area quad for amount=0, got area %v", area)
		}
	}
	_ = f
}

func vec3E(x, y, z float32) geom.Vec3 { return geom.Vec3{X: x, Y: y, Z: z} }
