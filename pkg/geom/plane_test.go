package geom

import "testing"

func TestNewellPlaneUnitSquareXY(t *testing.T) {
	verts := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	plane, ok := NewellPlane(verts)
	if !ok {
		t.Fatal("expected a valid plane fit")
	}
	if plane.Normal.Z < 0.99 {
		t.Errorf("expected normal ~(0,0,1), got %+v", plane.Normal)
	}
	for _, v := range verts {
		if d := plane.Distance(v); absf(d) > 1e-5 {
			t.Errorf("expected vertex %+v on plane, distance=%f", v, d)
		}
	}
}

func TestNewellPlaneDegenerate(t *testing.T) {
	verts := []Vec3{{0, 0, 0}, {1, 0, 0}}
	if _, ok := NewellPlane(verts); ok {
		t.Error("expected degenerate plane fit to fail for <3 vertices")
	}

	collinear := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	if _, ok := NewellPlane(collinear); ok {
		t.Error("expected degenerate plane fit to fail for collinear points")
	}
}

func TestBestAxis(t *testing.T) {
	p := Plane{Normal: Vec3{0, 0, 1}}
	if p.BestAxis() != 2 {
		t.Errorf("expected axis 2 (Z), got %d", p.BestAxis())
	}
}
