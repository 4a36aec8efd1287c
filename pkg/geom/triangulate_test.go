package geom

import "testing"

func TestTriangulateTriangle(t *testing.T) {
	verts := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	idx := Triangulate(verts)
	if len(idx) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(idx))
	}
}

func TestTriangulateSquare(t *testing.T) {
	verts := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	idx := Triangulate(verts)
	if len(idx) != 3*(len(verts)-2) {
		t.Fatalf("expected %d indices, got %d", 3*(len(verts)-2), len(idx))
	}
}

func TestTriangulatePentagonConvex(t *testing.T) {
	verts := []Vec3{
		{0, 1, 0}, {0.95, 0.31, 0}, {0.59, -0.81, 0}, {-0.59, -0.81, 0}, {-0.95, 0.31, 0},
	}
	idx := Triangulate(verts)
	if len(idx) != 3*(len(verts)-2) {
		t.Fatalf("expected %d indices, got %d", 3*(len(verts)-2), len(idx))
	}
}

func TestTriangulateDegenerateCollinear(t *testing.T) {
	verts := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	idx := Triangulate(verts)
	if idx != nil {
		t.Errorf("expected degenerate collinear triangle to fail, got %v", idx)
	}
}

func TestTriangulateTooFewVertices(t *testing.T) {
	if Triangulate([]Vec3{{0, 0, 0}, {1, 0, 0}}) != nil {
		t.Error("expected nil for fewer than 3 vertices")
	}
}

func TestTriangulateDartShape(t *testing.T) {
	// A classic dart/arrowhead pentagon, concave at index 2.
	verts := []Vec3{{0, 0, 0}, {4, 0, 0}, {2, 2, 0}, {4, 4, 0}, {0, 4, 0}}
	idx := Triangulate(verts)
	if len(idx) != 3*(len(verts)-2) {
		t.Fatalf("expected %d indices for dart shape, got %d", 3*(len(verts)-2), len(idx))
	}
}
