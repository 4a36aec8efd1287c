// Package texture implements the texture-parameter solver (spec.md
// §4.5): converting between a face's world-space projection basis
// (U-axis, V-axis, scale, offset) and its explicit per-corner UVs, plus
// the alignment and averaging helpers built on top of that conversion.
// Pure functions over *mesh.Mesh; no rendering or file-format concerns.
package texture

import (
	"math"

	"github.com/chazu/meshkernel/pkg/geom"
	"github.com/chazu/meshkernel/pkg/mesh"
)

const epsilon = 1e-7

// orientationRow is one entry of the fixed orientation table (spec.md
// §4.5): the face-normal direction this row applies to, and the world
// right/down axes a grid/face projection should use for that direction.
type orientationRow struct {
	normal geom.Vec3
	right  geom.Vec3
	down   geom.Vec3
}

var orientationTable = []orientationRow{
	{normal: geom.Vec3{X: 0, Y: 0, Z: 1}, right: geom.Vec3{X: 1, Y: 0, Z: 0}, down: geom.Vec3{X: 0, Y: -1, Z: 0}},
	{normal: geom.Vec3{X: 0, Y: 0, Z: -1}, right: geom.Vec3{X: 1, Y: 0, Z: 0}, down: geom.Vec3{X: 0, Y: -1, Z: 0}},
	{normal: geom.Vec3{X: 0, Y: -1, Z: 0}, right: geom.Vec3{X: 1, Y: 0, Z: 0}, down: geom.Vec3{X: 0, Y: 0, Z: -1}},
	{normal: geom.Vec3{X: 0, Y: 1, Z: 0}, right: geom.Vec3{X: -1, Y: 0, Z: 0}, down: geom.Vec3{X: 0, Y: 0, Z: -1}},
	{normal: geom.Vec3{X: -1, Y: 0, Z: 0}, right: geom.Vec3{X: 0, Y: -1, Z: 0}, down: geom.Vec3{X: 0, Y: 0, Z: -1}},
	{normal: geom.Vec3{X: 1, Y: 0, Z: 0}, right: geom.Vec3{X: 0, Y: 1, Z: 0}, down: geom.Vec3{X: 0, Y: 0, Z: -1}},
}

// bestOrientation returns the table row whose normal axis most aligns
// with n.
func bestOrientation(n geom.Vec3) orientationRow {
	best := orientationTable[0]
	bestDot := float32(-2)
	for _, row := range orientationTable {
		d := row.normal.Dot(n)
		if d > bestDot {
			bestDot = d
			best = row
		}
	}
	return best
}

func maxf(v, floor float32) float32 {
	if v < floor {
		return floor
	}
	return v
}

func nonZero(v float32) float32 {
	if v == 0 {
		return epsilon
	}
	return v
}

// CoordsFromParams computes face f's per-corner texcoords from its
// current projection parameters (U-axis, V-axis, scale, offset) and
// writes them into the mesh's texcoord stream, as spec.md §4.5 describes
// (transform is optional; nil means local space is already world space).
func CoordsFromParams(m *mesh.Mesh, f mesh.FaceHandle, xf mesh.Transform) {
	uAxis, vAxis, scale, offset := m.TextureParams(f)
	dims := m.MaterialTextureDims(f)
	w := maxf(dims.X, 1)
	h := maxf(dims.Y, 1)

	edges := m.Topo.EdgesOfFace(f)
	for _, h2 := range edges {
		v := m.Topo.EndVertex(h2)
		p := m.Position(v)
		if xf != nil {
			p = xf.PointToWorld(p)
		}
		u := uAxis.Dot(p)/nonZero(scale.X) + offset.X
		vv := vAxis.Dot(p)/nonZero(scale.Y) + offset.Y
		m.SetTexcoord(h2, geom.Vec2{X: u / w, Y: vv / h})
	}
}

// ParamsFromCoords solves for the projection basis (U-axis, V-axis,
// scale, offset) that reproduces face f's current per-corner texcoords
// as closely as a single linear basis can, per spec.md §4.5's
// "best-conditioned triangle" method. Fails (mesh.Degenerate) if the
// face has fewer than 3 corners or the chosen triangle's UVs are
// collinear/degenerate.
func ParamsFromCoords(m *mesh.Mesh, f mesh.FaceHandle, xf mesh.Transform) error {
	corners := m.Topo.EdgesOfFace(f)
	n := len(corners)
	if n < 3 {
		return degenerate(f, "face has fewer than 3 corners")
	}
	positions := make([]geom.Vec3, n)
	uvs := make([]geom.Vec2, n)
	for i, h := range corners {
		p := m.Position(m.Topo.EndVertex(h))
		if xf != nil {
			p = xf.PointToWorld(p)
		}
		positions[i] = p
		uvs[i] = m.Texcoord(h)
	}

	ai, bi, ci := bestConditionedTriangle(positions)
	a, b, c := positions[ai], positions[bi], positions[ci]
	uvA, uvB, uvC := uvs[ai], uvs[bi], uvs[ci]

	e0, e1 := b.Sub(a), c.Sub(a)
	t00, t01 := uvB.X-uvA.X, uvB.Y-uvA.Y
	t10, t11 := uvC.X-uvA.X, uvC.Y-uvA.Y
	det := t00*t11 - t10*t01
	if absf(det) < epsilon {
		return degenerate(f, "the chosen triangle's UVs are degenerate")
	}

	uWorld := e0.Scale(t11 / det).Sub(e1.Scale(t01 / det))
	vWorld := e1.Scale(t00 / det).Sub(e0.Scale(t10 / det))

	normal := uWorld.Cross(vWorld)
	mat := [3][3]float32{
		{uWorld.X, uWorld.Y, uWorld.Z},
		{vWorld.X, vWorld.Y, vWorld.Z},
		{normal.X, normal.Y, normal.Z},
	}
	inv, ok := invert3x3(mat)
	if !ok {
		return degenerate(f, "U,V,normal basis is singular")
	}
	// Columns of the inverse are the world-to-texture basis vectors; read
	// back the (now possibly re-conditioned) U and V columns.
	uRow := geom.Vec3{X: inv[0][0], Y: inv[1][0], Z: inv[2][0]}
	vRow := geom.Vec3{X: inv[0][1], Y: inv[1][1], Z: inv[2][1]}

	dims := m.MaterialTextureDims(f)
	w, h := maxf(dims.X, 1), maxf(dims.Y, 1)
	uLen, vLen := uRow.Length(), vRow.Length()
	scale := geom.Vec2{X: 1 / nonZero(w*uLen), Y: 1 / nonZero(h*vLen)}
	uNorm, vNorm := uRow.Normalize(), vRow.Normalize()

	offsetU := fractionalPart(uNorm.Dot(a)*uLen) - fractionalPart(uvA.X)
	offsetV := fractionalPart(vNorm.Dot(a)*vLen) - fractionalPart(uvA.Y)
	offset := geom.Vec2{X: offsetU * w, Y: offsetV * h}

	m.SetTextureParams(f, uNorm, vNorm, scale, offset)
	return nil
}

func fractionalPart(x float32) float32 {
	_, frac := math.Modf(float64(x))
	return float32(frac)
}

// bestConditionedTriangle picks the 3 corners maximizing
// |ab|^2 * |ac|^2 * (1 - |a_hat . c_hat|), spec.md §4.5's conditioning
// metric, by brute force over all triples (face valence is small).
func bestConditionedTriangle(positions []geom.Vec3) (int, int, int) {
	n := len(positions)
	bestScore := float32(-1)
	bi0, bi1, bi2 := 0, 1, 2
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			for k := 0; k < n; k++ {
				if k == i || k == j {
					continue
				}
				ab := positions[j].Sub(positions[i])
				ac := positions[k].Sub(positions[i])
				abLen2 := ab.Dot(ab)
				acLen2 := ac.Dot(ac)
				if abLen2 < epsilon || acLen2 < epsilon {
					continue
				}
				cosAngle := absf(ab.Normalize().Dot(ac.Normalize()))
				score := abLen2 * acLen2 * (1 - cosAngle)
				if score > bestScore {
					bestScore = score
					bi0, bi1, bi2 = i, j, k
				}
			}
		}
	}
	return bi0, bi1, bi2
}

func invert3x3(m [3][3]float32) ([3][3]float32, bool) {
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if absf(det) < epsilon {
		return [3][3]float32{}, false
	}
	invDet := 1 / det
	var out [3][3]float32
	out[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	out[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	out[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	out[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	out[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	out[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	out[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	out[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	out[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet
	return out, true
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func degenerate(f mesh.FaceHandle, reason string) error {
	return mesh.NewError(mesh.Degenerate, "params_from_coords: face %v: %s", f, reason)
}

// AlignToGrid sets face f's projection to a fixed 0.25 grid scale with
// zero offset, picking U/V from the orientation table entry closest to
// f's normal (spec.md §4.5).
func AlignToGrid(m *mesh.Mesh, f mesh.FaceHandle) {
	row := bestOrientation(m.FaceNormal(f))
	m.SetTextureParams(f, row.right, row.down, geom.Vec2{X: 0.25, Y: 0.25}, geom.Vec2{})
	CoordsFromParams(m, f, nil)
}

// AlignToFace is like AlignToGrid, but derives U as normal x the table's
// down axis and then V as U x normal, so the basis is exactly orthogonal
// to f's actual normal rather than the table's canonical axis (spec.md
// §4.5).
func AlignToFace(m *mesh.Mesh, f mesh.FaceHandle) {
	n := m.FaceNormal(f)
	row := bestOrientation(n)
	u := n.Cross(row.down).Normalize()
	v := u.Cross(n).Normalize()
	m.SetTextureParams(f, u, v, geom.Vec2{X: 0.25, Y: 0.25}, geom.Vec2{})
	CoordsFromParams(m, f, nil)
}

// JustifyMode selects which side of the (W,H) tile Justify aligns a
// face's UV bounding box to.
type JustifyMode int

const (
	JustifyNone JustifyMode = iota
	JustifyTop
	JustifyBottom
	JustifyLeft
	JustifyRight
	JustifyCenter
	JustifyFit
	JustifyFitX
	JustifyFitY
)

// Justify shifts (and, for the Fit* modes, rescales) face f's offset so
// its current UV bounding box touches the requested side of the
// extents-sized tile (spec.md §4.5).
func Justify(m *mesh.Mesh, f mesh.FaceHandle, mode JustifyMode, extents geom.Vec2) {
	if mode == JustifyNone {
		return
	}
	corners := m.Topo.EdgesOfFace(f)
	if len(corners) == 0 {
		return
	}
	minUV := m.Texcoord(corners[0])
	maxUV := minUV
	for _, h := range corners[1:] {
		uv := m.Texcoord(h)
		if uv.X < minUV.X {
			minUV.X = uv.X
		}
		if uv.Y < minUV.Y {
			minUV.Y = uv.Y
		}
		if uv.X > maxUV.X {
			maxUV.X = uv.X
		}
		if uv.Y > maxUV.Y {
			maxUV.Y = uv.Y
		}
	}
	size := maxUV.Sub(minUV)

	uAxis, vAxis, scale, offset := m.TextureParams(f)
	// The stored offset is in texels (CoordsFromParams divides by the
	// texture size); the switch below works in normalized UV units.
	dims := m.MaterialTextureDims(f)
	w, h := maxf(dims.X, 1), maxf(dims.Y, 1)
	offset = geom.Vec2{X: offset.X / w, Y: offset.Y / h}
	switch mode {
	case JustifyTop:
		offset.Y -= minUV.Y
	case JustifyBottom:
		offset.Y -= maxUV.Y - extents.Y
	case JustifyLeft:
		offset.X -= minUV.X
	case JustifyRight:
		offset.X -= maxUV.X - extents.X
	case JustifyCenter:
		offset.X -= minUV.X + size.X/2 - extents.X/2
		offset.Y -= minUV.Y + size.Y/2 - extents.Y/2
	case JustifyFit:
		offset.X -= minUV.X
		if size.X > epsilon {
			scale.X *= size.X / extents.X
			offset.X *= extents.X / size.X
		}
		offset.Y -= minUV.Y
		if size.Y > epsilon {
			scale.Y *= size.Y / extents.Y
			offset.Y *= extents.Y / size.Y
		}
	case JustifyFitX:
		offset.X -= minUV.X
		if size.X > epsilon {
			scale.X *= size.X / extents.X
			offset.X *= extents.X / size.X
		}
	case JustifyFitY:
		offset.Y -= minUV.Y
		if size.Y > epsilon {
			scale.Y *= size.Y / extents.Y
			offset.Y *= extents.Y / size.Y
		}
	}
	offset = geom.Vec2{X: offset.X * w, Y: offset.Y * h}
	m.SetTextureParams(f, uAxis, vAxis, scale, offset)
	CoordsFromParams(m, f, nil)
}

// AverageEdgeUVs averages the corner UVs of each edge's two incident
// faces at each of the edge's two vertices: the second face's corner UV is
// shifted by whole units so it lands within 0.5 of the first's, the two
// corner values are then replaced by their arithmetic mean, and each
// affected face's projection params are re-derived from the new corner
// UVs (spec.md §4.5).
func AverageEdgeUVs(m *mesh.Mesh, edges []mesh.EdgeHandle) {
	affected := map[mesh.FaceHandle]bool{}
	for _, e := range edges {
		h, tw := m.Topo.HalfEdgesOf(e)
		fa, fb := m.Topo.FaceOf(h), m.Topo.FaceOf(tw)
		if fa.IsNil() || fb.IsNil() {
			continue
		}
		// h ends at the edge's second vertex, whose corner in fb is prev(tw);
		// tw ends at the first vertex, whose corner in fa is prev(h).
		for _, pair := range [][2]mesh.HalfEdgeHandle{{h, m.Topo.Prev(tw)}, {m.Topo.Prev(h), tw}} {
			uvA := m.Texcoord(pair[0])
			uvB := snapNear(uvA, m.Texcoord(pair[1]))
			mean := uvA.Add(uvB).Scale(0.5)
			m.SetTexcoord(pair[0], mean)
			m.SetTexcoord(pair[1], mean)
		}
		affected[fa] = true
		affected[fb] = true
	}
	for f := range affected {
		_ = ParamsFromCoords(m, f, nil)
	}
}

// AverageVertexUVs is AverageEdgeUVs' vertex-fan analogue: every
// half-edge corner ending at each vertex is snapped near the first and
// replaced by the group mean.
func AverageVertexUVs(m *mesh.Mesh, vertices []mesh.VertexHandle) {
	affected := map[mesh.FaceHandle]bool{}
	for _, v := range vertices {
		var corners []mesh.HalfEdgeHandle
		for _, h := range m.Topo.InHalfEdges(v) {
			if !m.Topo.FaceOf(h).IsNil() {
				corners = append(corners, h)
			}
		}
		if len(corners) < 2 {
			continue
		}
		ref := m.Texcoord(corners[0])
		var sum geom.Vec2
		snapped := make([]geom.Vec2, len(corners))
		for i, h := range corners {
			snapped[i] = snapNear(ref, m.Texcoord(h))
			sum = sum.Add(snapped[i])
		}
		mean := sum.Scale(1 / float32(len(corners)))
		for _, h := range corners {
			m.SetTexcoord(h, mean)
			affected[m.Topo.FaceOf(h)] = true
		}
	}
	for f := range affected {
		_ = ParamsFromCoords(m, f, nil)
	}
}

// snapNear shifts uv by whole units in U and V so it lands within 0.5 of
// ref, undoing an arbitrary integer-offset difference before averaging.
func snapNear(ref, uv geom.Vec2) geom.Vec2 {
	for uv.X-ref.X > 0.5 {
		uv.X--
	}
	for ref.X-uv.X > 0.5 {
		uv.X++
	}
	for uv.Y-ref.Y > 0.5 {
		uv.Y--
	}
	for ref.Y-uv.Y > 0.5 {
		uv.Y++
	}
	return uv
}
