package mesh

import "testing"

func TestFaceValenceAndVertexDegree(t *testing.T) {
	m, v, faces := buildUnitCube(t)
	if got := m.FaceValence(faces[0]); got != 4 {
		t.Errorf("expected quad face valence 4, got %d", got)
	}
	if got := m.VertexDegree(v[0]); got != 3 {
		t.Errorf("expected cube corner degree 3, got %d", got)
	}
}

func TestFaceNormalPointsOutward(t *testing.T) {
	m, _, faces := buildUnitCube(t)
	n := m.FaceNormal(faces[1]) // +Z face
	if n.Z <= 0 {
		t.Errorf("expected +Z face normal to point toward +Z, got %v", n)
	}
}

func TestBoundsEncapsulatesCube(t *testing.T) {
	m, _, _ := buildUnitCube(t)
	b := m.Bounds(Identity())
	if b.Min.X > -0.49 || b.Max.X < 0.49 {
		t.Errorf("expected bounds to span the unit cube, got %+v", b)
	}
}

func TestEdgeMidpoint(t *testing.T) {
	m, _, faces := buildUnitCube(t)
	h := m.Topo.EdgesOfFace(faces[0])[0]
	e := m.Topo.FullEdge(h)
	a, b := m.EdgeLine(e)
	mid := m.EdgeMidpoint(e)
	want := a.Lerp(b, 0.5)
	if !mid.ApproxEqual(want, 1e-5) {
		t.Errorf("expected midpoint %v, got %v", want, mid)
	}
}
