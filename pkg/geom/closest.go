package geom

// ClosestPointOnSegment returns the point on segment a-b nearest to p,
// parameterized as t = clamp(dot(p-a, b-a) / |b-a|^2, 0, 1).
func ClosestPointOnSegment(p, a, b Vec3) Vec3 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-20 {
		return a
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// ClosestSegmentBetweenLines solves the classical two-line closest-point
// problem for segments p1-q1 and p2-q2, returning the parameters s (along
// p1-q1) and t (along p2-q2) at which the two lines are closest. Returns
// ok=false for (near-)parallel lines, matching the 1e-6 denominator
// tolerance used elsewhere in the kernel for degenerate-geometry checks.
func ClosestSegmentBetweenLines(p1, q1, p2, q2 Vec3) (s, t float32, ok bool) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	if a < 1e-20 && e < 1e-20 {
		return 0, 0, true
	}
	if a < 1e-20 {
		return 0, clamp01(f / e), true
	}
	c := d1.Dot(r)
	if e < 1e-20 {
		return clamp01(-c / a), 0, true
	}

	b := d1.Dot(d2)
	denom := a*e - b*b
	if absf(denom) < 1e-6 {
		return 0, 0, false
	}

	s = clamp01((b*f - c*e) / denom)
	t = (b*s + f) / e
	if t < 0 {
		t = 0
		s = clamp01(-c / a)
	} else if t > 1 {
		t = 1
		s = clamp01((b - c) / a)
	}
	return s, t, true
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
