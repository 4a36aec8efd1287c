package mesh

import (
	"math"

	"github.com/chazu/meshkernel/pkg/geom"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// BevelVertices replaces each vertex in vs with a small face whose
// corners are inset along its incident edges by distance (spec.md
// §4.4). Only interior vertices (every incident half-edge already has a
// face) are supported; a boundary vertex would need an open bevel arc
// instead of a closed replacement face, which is not implemented.
func (m *Mesh) BevelVertices(vs []VertexHandle, distance float64) error {
	for _, v := range vs {
		if err := m.bevelVertex(v, distance); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) bevelVertex(v VertexHandle, distance float64) error {
	out := m.Topo.OutHalfEdges(v)
	n := len(out)
	if n < 3 {
		return newErr(BadPolygon, "bevel_vertices: vertex %v has degree %d, need at least 3", v, n)
	}
	for _, h := range out {
		if m.Topo.FaceOf(h).IsNil() {
			return newErr(BadPolygon, "bevel_vertices: vertex %v touches an open boundary", v)
		}
	}

	vPos := m.Position(v)
	mids := make([]VertexHandle, n)
	for i, h := range out {
		neighbor := m.Topo.EndVertex(h)
		nPos := m.Position(neighbor)
		edgeLen := float64(vPos.Distance(nPos))
		inset := distance
		if inset > edgeLen*0.49 {
			inset = edgeLen * 0.49
		}
		e := m.Topo.FullEdge(h)
		mid, _, _, err := m.Topo.AddVertexToEdge(e)
		if err != nil {
			return err
		}
		var t float32
		if edgeLen > 1e-12 {
			t = float32(inset / edgeLen)
		}
		m.SetPosition(mid, vPos.Lerp(nPos, t))
		mids[i] = mid
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		e, err := m.ConnectVertices(mids[i], mids[j])
		if err != nil {
			return err
		}
		fa, fb := m.Topo.FacesOfEdge(e)
		for _, f := range []FaceHandle{fa, fb} {
			if f.IsNil() {
				continue
			}
			for _, vv := range m.Topo.VerticesOfFace(f) {
				if vv == v {
					_ = m.RemoveFace(f, true)
					break
				}
			}
		}
	}

	if err := m.RemoveVertex(v, true); err != nil {
		return err
	}
	if _, err := m.AddFace(mids); err != nil {
		return err
	}
	m.markDirty()
	return nil
}

// QuadSliceFaces introduces a cutsX x cutsY grid of new edges across each
// quad-like face (spec.md §4.4). Non-quad faces are reduced to their four
// sharpest corners (turn angle exceeding minCornerAngleDeg); faces that
// don't resolve to exactly four such corners bordered by single existing
// edges are left untouched, matching the spec's "otherwise skip".
func (m *Mesh) QuadSliceFaces(faces []FaceHandle, cutsX, cutsY int, minCornerAngleDeg float64) error {
	for _, f := range faces {
		if err := m.quadSliceFace(f, cutsX, cutsY, minCornerAngleDeg); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) quadSliceFace(f FaceHandle, cutsX, cutsY int, minCornerAngleDeg float64) error {
	if !m.Topo.IsValidFace(f) {
		return newErr(StaleHandle, "quad_slice_faces: face %v is not live", f)
	}
	verts := m.Topo.VerticesOfFace(f)
	corners, ok := m.findQuadCorners(verts, minCornerAngleDeg)
	if !ok {
		return nil
	}
	a, b, c, d := corners[0], corners[1], corners[2], corners[3]
	for _, pair := range [][2]VertexHandle{{a, b}, {b, c}, {c, d}, {d, a}} {
		if _, ok := m.Topo.EdgeBetween(pair[0], pair[1]); !ok {
			return nil // a side has intermediate vertices; unsupported, skip
		}
	}

	nx, ny := cutsX+1, cutsY+1
	grid := make([][]VertexHandle, ny+1)
	for j := range grid {
		grid[j] = make([]VertexHandle, nx+1)
	}
	grid[0][0], grid[0][nx], grid[ny][nx], grid[ny][0] = a, b, c, d

	topEdge, _ := m.Topo.EdgeBetween(a, b)
	if err := m.fillEdgeRow(topEdge, a, b, grid[0], nx); err != nil {
		return err
	}
	bottomEdge, _ := m.Topo.EdgeBetween(d, c)
	if err := m.fillEdgeRow(bottomEdge, d, c, grid[ny], nx); err != nil {
		return err
	}
	leftEdge, _ := m.Topo.EdgeBetween(a, d)
	leftCol := make([]VertexHandle, ny+1)
	if err := m.fillEdgeRow(leftEdge, a, d, leftCol, ny); err != nil {
		return err
	}
	for j := range leftCol {
		grid[j][0] = leftCol[j]
	}
	rightEdge, _ := m.Topo.EdgeBetween(b, c)
	rightCol := make([]VertexHandle, ny+1)
	if err := m.fillEdgeRow(rightEdge, b, c, rightCol, ny); err != nil {
		return err
	}
	for j := range rightCol {
		grid[j][nx] = rightCol[j]
	}

	for j := 1; j < ny; j++ {
		for i := 1; i < nx; i++ {
			u, v := float32(i)/float32(nx), float32(j)/float32(ny)
			grid[j][i] = m.AddVertex(bilerp(m.Position(a), m.Position(b), m.Position(d), m.Position(c), u, v))
		}
	}

	if err := m.RemoveFace(f, true); err != nil {
		return err
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			loop := []VertexHandle{grid[j][i], grid[j][i+1], grid[j+1][i+1], grid[j+1][i]}
			if _, err := m.AddFace(loop); err != nil {
				// f is already gone and some subquads may already be live;
				// there is no topology-level transaction to roll back, so
				// this wraps the failure with which grid cell it happened
				// on rather than silently leaving a partial grid.
				return errors.Wrapf(err, "quad_slice_faces: face %v left partially sliced at cell (%d,%d)", f, i, j)
			}
		}
	}
	m.markDirty()
	return nil
}

// fillEdgeRow subdivides the existing edge e (running start->end, in
// either canonical order) into `segments` equal parts, writing the
// resulting vertex chain (including the endpoints) into row.
func (m *Mesh) fillEdgeRow(e EdgeHandle, start, end VertexHandle, row []VertexHandle, segments int) error {
	row[0] = start
	row[segments] = end
	cur := e
	curStart := start
	remaining := segments
	for k := 1; k < segments; k++ {
		t := float32(1) / float32(remaining)
		ea, _ := m.Topo.VerticesOfEdge(cur)
		if ea != curStart {
			t = 1 - t
		}
		mid, e1, e2, err := m.AddVertexToEdge(cur, t)
		if err != nil {
			return err
		}
		row[k] = mid
		a1, b1 := m.Topo.VerticesOfEdge(e1)
		if (a1 == mid && b1 == end) || (b1 == mid && a1 == end) {
			cur = e1
		} else {
			cur = e2
		}
		curStart = mid
		remaining--
	}
	return nil
}

func bilerp(a, b, d, c geom.Vec3, u, v float32) geom.Vec3 {
	top := a.Lerp(b, u)
	bottom := d.Lerp(c, u)
	return top.Lerp(bottom, v)
}

func (m *Mesh) findQuadCorners(verts []VertexHandle, minCornerAngleDeg float64) ([4]VertexHandle, bool) {
	n := len(verts)
	if n == 4 {
		return [4]VertexHandle{verts[0], verts[1], verts[2], verts[3]}, true
	}
	if n < 4 {
		return [4]VertexHandle{}, false
	}
	minCos := math.Cos(minCornerAngleDeg * math.Pi / 180)
	var corners []VertexHandle
	for i := 0; i < n; i++ {
		prev := verts[(i-1+n)%n]
		cur := verts[i]
		next := verts[(i+1)%n]
		dPrev := m.Position(cur).Sub(m.Position(prev)).Normalize()
		dNext := m.Position(next).Sub(m.Position(cur)).Normalize()
		if float64(dPrev.Dot(dNext)) < minCos {
			corners = append(corners, cur)
		}
	}
	if len(corners) != 4 {
		return [4]VertexHandle{}, false
	}
	return [4]VertexHandle{corners[0], corners[1], corners[2], corners[3]}, true
}

// CreateEdgesConnectingVertexToPoint connects start to a new vertex
// placed at target by fanning the incident face whose plane is nearest
// target (spec.md §4.4). The general multi-face cutting-plane walk is
// scoped out: this supports the common single-face case only.
func (m *Mesh) CreateEdgesConnectingVertexToPoint(start VertexHandle, target geom.Vec3) ([]EdgeHandle, error) {
	out := m.Topo.OutHalfEdges(start)
	var bestFace FaceHandle
	bestDist := float32(math.MaxFloat32)
	for _, h := range out {
		f := m.Topo.FaceOf(h)
		if f.IsNil() {
			continue
		}
		verts := m.Topo.VerticesOfFace(f)
		positions := lo.Map(verts, func(v VertexHandle, _ int) geom.Vec3 { return m.Position(v) })
		plane, ok := geom.NewellPlane(positions)
		if !ok {
			continue
		}
		d := absf32(plane.Distance(target))
		if d < bestDist {
			bestDist = d
			bestFace = f
		}
	}
	if bestFace.IsNil() {
		return nil, newErr(BadPolygon, "create_edges_connecting_vertex_to_point: vertex %v has no incident face", start)
	}

	verts := m.Topo.VerticesOfFace(bestFace)
	uvByVertex := map[VertexHandle]geom.Vec2{}
	for _, h := range m.Topo.EdgesOfFace(bestFace) {
		uvByVertex[m.Topo.EndVertex(h)] = m.Texcoord(h)
	}
	newV := m.AddVertex(target)
	if err := m.RemoveFace(bestFace, true); err != nil {
		return nil, err
	}
	n := len(verts)
	for i := 0; i < n; i++ {
		loop := []VertexHandle{verts[i], verts[(i+1)%n], newV}
		if _, err := m.AddFace(loop); err != nil {
			return nil, err
		}
	}
	m.restoreTexcoords(verts, uvByVertex)

	var edges []EdgeHandle
	if e, ok := m.Topo.EdgeBetween(start, newV); ok {
		edges = append(edges, e)
	}
	m.markDirty()
	return edges, nil
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
