package geom

// triangulateEps is the tolerance used for the cross-product sign tests
// in reflex classification and point-in-triangle containment.
const triangulateEps = 1e-7

// Triangulate ear-clips a simple, approximately-planar polygon given as
// 3D vertices. It projects onto the axis-aligned plane the fitted normal
// is most aligned with, then runs O(n^2) ear clipping with reflex-vertex
// detection and point-in-triangle tests.
//
// Returns index triples into verts; len(result) == 3*(n-2) on success, or
// nil if the polygon is degenerate (fewer than 3 vertices, a zero-area
// plane fit, or ear clipping got stuck without consuming the ring).
func Triangulate(verts []Vec3) []int {
	n := len(verts)
	if n < 3 {
		return nil
	}

	plane, ok := NewellPlane(verts)
	if !ok {
		return nil
	}
	if n == 3 {
		return []int{0, 1, 2}
	}
	axis := plane.BestAxis()

	pts2d := make([]Vec2, n)
	for i, v := range verts {
		pts2d[i] = Project2D(v, axis)
	}

	// Ensure CCW winding in the projected 2D plane; ear clipping below
	// assumes it. Signed area via the shoelace formula.
	if signedArea2D(pts2d) < 0 {
		reverseInts := make([]int, n)
		for i := range reverseInts {
			reverseInts[i] = n - 1 - i
		}
		rev := make([]Vec2, n)
		for i, idx := range reverseInts {
			rev[i] = pts2d[idx]
		}
		pts2d = rev
		out := triangulateRing(pts2d, reverseInts)
		return out
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return triangulateRing(pts2d, indices)
}

// triangulateRing runs ear clipping over pts2d (aligned with the original
// index in indices) and returns triangle index-triples remapped back to
// the original vertex indices.
func triangulateRing(pts2d []Vec2, indices []int) []int {
	n := len(pts2d)
	ring := make([]int, n) // indices into pts2d/indices, forming the live polygon
	for i := range ring {
		ring[i] = i
	}

	var out []int
	guard := 0
	maxGuard := n * n * 2

	for len(ring) > 3 {
		guard++
		if guard > maxGuard {
			// Clipping stalled (shouldn't happen on a simple polygon);
			// treat as degenerate rather than loop forever.
			return nil
		}

		earFound := false
		m := len(ring)
		for i := 0; i < m; i++ {
			iPrev := ring[(i-1+m)%m]
			iCur := ring[i]
			iNext := ring[(i+1)%m]

			a, b, c := pts2d[iPrev], pts2d[iCur], pts2d[iNext]
			if !isConvex(a, b, c) {
				continue
			}

			ear := true
			for j := 0; j < m; j++ {
				k := ring[j]
				if k == iPrev || k == iCur || k == iNext {
					continue
				}
				if pointInTriangle(pts2d[k], a, b, c) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}

			out = append(out, indices[iPrev], indices[iCur], indices[iNext])
			ring = append(ring[:i], ring[i+1:]...)
			earFound = true
			break
		}

		if !earFound {
			return nil
		}
	}

	if len(ring) == 3 {
		out = append(out, indices[ring[0]], indices[ring[1]], indices[ring[2]])
	}
	return out
}

func signedArea2D(pts []Vec2) float32 {
	var sum float32
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		sum += a.Cross(b)
	}
	return sum * 0.5
}

// isConvex reports whether vertex b is a convex (non-reflex) turn going
// a -> b -> c in a CCW polygon.
func isConvex(a, b, c Vec2) bool {
	return b.Sub(a).Cross(c.Sub(b)) > triangulateEps
}

// pointInTriangle reports whether p lies inside triangle a,b,c (all in
// the same 2D winding), using cross-product sign tests with tolerance.
func pointInTriangle(p, a, b, c Vec2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))

	hasNeg := d1 < -triangulateEps || d2 < -triangulateEps || d3 < -triangulateEps
	hasPos := d1 > triangulateEps || d2 > triangulateEps || d3 > triangulateEps
	return !(hasNeg && hasPos)
}
