package geom

import "testing"

func TestClosestPointOnSegmentClamps(t *testing.T) {
	a, b := Vec3{0, 0, 0}, Vec3{1, 0, 0}

	mid := ClosestPointOnSegment(Vec3{0.5, 1, 0}, a, b)
	if !mid.ApproxEqual(Vec3{0.5, 0, 0}, 1e-5) {
		t.Errorf("expected (0.5,0,0), got %+v", mid)
	}

	before := ClosestPointOnSegment(Vec3{-1, 0, 0}, a, b)
	if !before.ApproxEqual(a, 1e-5) {
		t.Errorf("expected clamp to a=%+v, got %+v", a, before)
	}

	after := ClosestPointOnSegment(Vec3{2, 0, 0}, a, b)
	if !after.ApproxEqual(b, 1e-5) {
		t.Errorf("expected clamp to b=%+v, got %+v", b, after)
	}
}

func TestClosestSegmentBetweenLinesPerpendicular(t *testing.T) {
	// Two perpendicular segments crossing over each other in 3D.
	s, tt, ok := ClosestSegmentBetweenLines(Vec3{-1, 0, 1}, Vec3{1, 0, 1}, Vec3{0, -1, 0}, Vec3{0, 1, 0})
	if !ok {
		t.Fatal("expected non-parallel lines to succeed")
	}
	if absf(s-0.5) > 1e-4 || absf(tt-0.5) > 1e-4 {
		t.Errorf("expected s=t=0.5, got s=%f t=%f", s, tt)
	}
}

func TestClosestSegmentBetweenLinesParallel(t *testing.T) {
	_, _, ok := ClosestSegmentBetweenLines(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{1, 1, 0})
	if ok {
		t.Error("expected parallel lines to fail")
	}
}
