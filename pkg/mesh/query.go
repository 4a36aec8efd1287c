package mesh

import (
	"github.com/chazu/meshkernel/pkg/geom"
	"github.com/samber/lo"
)

// Bounds returns the axis-aligned bounding box of every live vertex
// position, optionally transformed into xf's space first.
func (m *Mesh) Bounds(xf Transform) geom.Bounds {
	b := geom.EmptyBounds()
	for _, v := range m.AllVertices() {
		p := m.Position(v)
		if xf != nil {
			p = xf.PointToWorld(p)
		}
		b = b.Encapsulate(p)
	}
	return b
}

// FacePositions returns f's boundary vertex positions in loop order,
// optionally transformed into xf's space.
func (m *Mesh) FacePositions(f FaceHandle, xf Transform) []geom.Vec3 {
	verts := m.Topo.VerticesOfFace(f)
	return lo.Map(verts, func(v VertexHandle, _ int) geom.Vec3 {
		p := m.Position(v)
		if xf != nil {
			p = xf.PointToWorld(p)
		}
		return p
	})
}

// FaceCentroid returns the arithmetic mean of f's boundary vertices.
func (m *Mesh) FaceCentroid(f FaceHandle) geom.Vec3 {
	verts := m.Topo.VerticesOfFace(f)
	var sum geom.Vec3
	for _, v := range verts {
		sum = sum.Add(m.Position(v))
	}
	if len(verts) == 0 {
		return sum
	}
	return sum.Scale(1 / float32(len(verts)))
}

// FacePlane fits f's boundary to a plane via Newell's method (spec.md
// §4.6). Returns false if f has fewer than 3 vertices or is degenerate.
func (m *Mesh) FacePlane(f FaceHandle) (geom.Plane, bool) {
	return geom.NewellPlane(m.FacePositions(f, nil))
}

// FaceNormal returns f's unit normal (the Newell plane's normal).
func (m *Mesh) FaceNormal(f FaceHandle) geom.Vec3 {
	plane, ok := m.FacePlane(f)
	if !ok {
		return geom.Vec3{}
	}
	return plane.Normal
}

// EdgeLine returns e's two endpoint positions, in canonical
// VerticesOfEdge order.
func (m *Mesh) EdgeLine(e EdgeHandle) (geom.Vec3, geom.Vec3) {
	a, b := m.Topo.VerticesOfEdge(e)
	return m.Position(a), m.Position(b)
}

// EdgeMidpoint returns the midpoint of e's two endpoints.
func (m *Mesh) EdgeMidpoint(e EdgeHandle) geom.Vec3 {
	a, b := m.EdgeLine(e)
	return a.Lerp(b, 0.5)
}

// FaceValence returns the number of boundary vertices of f.
func (m *Mesh) FaceValence(f FaceHandle) int {
	return len(m.Topo.VerticesOfFace(f))
}

// VertexDegree returns the number of edges incident to v.
func (m *Mesh) VertexDegree(v VertexHandle) int {
	return len(m.Topo.OutHalfEdges(v))
}
