package geom

import "math"

// Plane is a plane in Hessian normal form: dot(Normal, p) + D = 0.
type Plane struct {
	Normal Vec3
	D      float32
}

// NewellPlane fits a plane to a (possibly non-planar) polygon using
// Newell's method: the normal is accumulated from edge cross products
// and the distance is computed against the vertex centroid. Returns the
// zero Plane and false if fewer than 3 vertices are given or the fitted
// normal is degenerate.
func NewellPlane(verts []Vec3) (Plane, bool) {
	n := len(verts)
	if n < 3 {
		return Plane{}, false
	}

	var normal Vec3
	var centroid Vec3
	for i := 0; i < n; i++ {
		cur := verts[i]
		next := verts[(i+1)%n]
		normal.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		normal.Y += (cur.Z - next.Z) * (cur.X + next.X)
		normal.Z += (cur.X - next.X) * (cur.Y + next.Y)
		centroid = centroid.Add(cur)
	}
	centroid = centroid.Scale(1 / float32(n))

	// Tiny epsilon on the length avoids a zero-division for coincident
	// or nearly-degenerate input instead of producing Inf/NaN.
	length := normal.Length() + 1e-20
	if length < 1e-12 {
		return Plane{}, false
	}
	unitNormal := normal.Scale(1 / length)

	d := -unitNormal.Dot(centroid)
	return Plane{Normal: unitNormal, D: d}, true
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(point Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// BestAxis returns the index (0=X, 1=Y, 2=Z) of the axis the plane's
// normal is most aligned with — used to pick a 2D projection plane for
// triangulation.
func (p Plane) BestAxis() int {
	ax, ay, az := absf(p.Normal.X), absf(p.Normal.Y), absf(p.Normal.Z)
	if ax >= ay && ax >= az {
		return 0
	}
	if ay >= az {
		return 1
	}
	return 2
}

// Project2D drops the component along axis (0=X,1=Y,2=Z), returning the
// remaining two components in a fixed (first-remaining, second-remaining)
// order.
func Project2D(p Vec3, axis int) Vec2 {
	switch axis {
	case 0:
		return Vec2{p.Y, p.Z}
	case 1:
		return Vec2{p.X, p.Z}
	default:
		return Vec2{p.X, p.Y}
	}
}

// NormalFromTriangle returns the (unnormalized) normal of the triangle
// a,b,c via the cross product of its two edges.
func NormalFromTriangle(a, b, c Vec3) Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// IsFinite reports whether every component of v is finite (not NaN/Inf).
func IsFinite(v Vec3) bool {
	return !math.IsNaN(float64(v.X)) && !math.IsInf(float64(v.X), 0) &&
		!math.IsNaN(float64(v.Y)) && !math.IsInf(float64(v.Y), 0) &&
		!math.IsNaN(float64(v.Z)) && !math.IsInf(float64(v.Z), 0)
}
