package mesh

import (
	"testing"

	"github.com/chazu/meshkernel/pkg/geom"
)

func TestQuadSliceFacesGrowsFaceCount(t *testing.T) {
	m, _, faces := buildUnitCube(t)
	before := len(m.AllFaces())
	if err := m.QuadSliceFaces([]FaceHandle{faces[1]}, 2, 2, 20); err != nil {
		t.Fatalf("quad_slice_faces failed: %v", err)
	}
	after := len(m.AllFaces())
	// two cuts each way give a 3x3 grid: 1 face replaced with 9.
	if after != before+8 {
		t.Errorf("expected +8 faces from a 2x2-cut slice, got %d -> %d", before, after)
	}
}

func TestQuadSliceFacesSkipsNonQuad(t *testing.T) {
	m := New()
	a := m.AddVertex(vec3Adv(0, 0, 0))
	b := m.AddVertex(vec3Adv(1, 0, 0))
	c := m.AddVertex(vec3Adv(1, 1, 0))
	d := m.AddVertex(vec3Adv(0.5, 1.5, 0))
	e := m.AddVertex(vec3Adv(0, 1, 0))
	f, err := m.AddFace([]VertexHandle{a, b, c, d, e})
	if err != nil {
		t.Fatalf("add_face failed: %v", err)
	}
	// A pentagon has no clean 4-corner reduction at a tight angle
	// threshold; the operator should leave it untouched rather than error.
	before := len(m.AllFaces())
	if err := m.QuadSliceFaces([]FaceHandle{f}, 2, 2, 1); err != nil {
		t.Fatalf("expected no error for a skipped non-quad face, got %v", err)
	}
	if len(m.AllFaces()) != before {
		t.Errorf("expected pentagon to be left unsliced, face count changed %d -> %d", before, len(m.AllFaces()))
	}
}

func TestBevelVerticesInteriorVertex(t *testing.T) {
	m, v, _ := buildUnitCube(t)
	before := len(m.AllVertices())
	if err := m.BevelVertices([]VertexHandle{v[0]}, 0.1); err != nil {
		t.Fatalf("bevel_vertices failed: %v", err)
	}
	after := len(m.AllVertices())
	// bevelling a degree-3 cube corner replaces 1 vertex with 3.
	if after != before+2 {
		t.Errorf("expected +2 vertices from bevelling a degree-3 corner, got %d -> %d", before, after)
	}
}

func vec3Adv(x, y, z float32) geom.Vec3 { return geom.Vec3{X: x, Y: y, Z: z} }
