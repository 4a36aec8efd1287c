package geom

// PlaneFromLine builds the cutting plane that contains the line segment
// a-b and is perpendicular to refNormal (typically a face normal) —
// i.e. the plane a polygon-slicing line segment implies when the line
// itself doesn't carry enough information (a segment has one degree of
// freedom less than a plane).
func PlaneFromLine(a, b, refNormal Vec3) (Plane, bool) {
	dir := b.Sub(a)
	normal := dir.Cross(refNormal).Normalize()
	if normal == (Vec3{}) {
		return Plane{}, false
	}
	return Plane{Normal: normal, D: -normal.Dot(a)}, true
}

// ClipByPlane clips a simple polygon against a plane, classic
// Sutherland-Hodgman style: front holds the portion with
// Distance(plane) >= 0, back holds the rest, and the cut edge is
// inserted into both where the boundary crosses the plane.
func ClipByPlane(poly []Vec3, plane Plane) (front, back []Vec3) {
	n := len(poly)
	if n == 0 {
		return nil, nil
	}

	for i := 0; i < n; i++ {
		cur := poly[i]
		next := poly[(i+1)%n]
		curD := plane.Distance(cur)
		nextD := plane.Distance(next)

		if curD >= 0 {
			front = append(front, cur)
		} else {
			back = append(back, cur)
		}

		// Edge crosses the plane: insert the intersection point into both
		// output lists.
		if (curD >= 0) != (nextD >= 0) && (curD != 0) {
			t := curD / (curD - nextD)
			ip := cur.Lerp(next, t)
			front = append(front, ip)
			back = append(back, ip)
		}
	}
	return front, back
}

// ClipBySegment clips poly against the plane implied by the line segment
// a-b and refNormal (see PlaneFromLine). Returns false if the segment is
// degenerate with respect to refNormal (parallel, zero-length).
func ClipBySegment(poly []Vec3, a, b, refNormal Vec3) (front, back []Vec3, ok bool) {
	plane, ok := PlaneFromLine(a, b, refNormal)
	if !ok {
		return nil, nil, false
	}
	front, back = ClipByPlane(poly, plane)
	return front, back, true
}
