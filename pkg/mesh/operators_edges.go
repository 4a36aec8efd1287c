package mesh

import (
	"github.com/chazu/meshkernel/pkg/geom"
)

// BevelFaces duplicates each face in faces, offsetting the duplicate by
// offset, and (if createConnecting) stitches a ring of new quads between
// each original edge and its duplicate (spec.md §4.2). The original face
// is left in place, so extruding a single face nets (1 original + 1
// duplicate + one quad per edge) faces — the shape spec.md §8 scenario 3
// ("Extrude quad") checks. corresp maps each input face to its duplicate.
func (m *Mesh) BevelFaces(faces []FaceHandle, createConnecting bool, offset geom.Vec3) (newFaces []FaceHandle, connectingFaces []FaceHandle, corresp map[FaceHandle]FaceHandle, err error) {
	corresp = map[FaceHandle]FaceHandle{}
	for _, f := range faces {
		nf, conn, ferr := m.bevelFace(f, createConnecting, offset)
		if ferr != nil {
			return newFaces, connectingFaces, corresp, ferr
		}
		newFaces = append(newFaces, nf)
		connectingFaces = append(connectingFaces, conn...)
		corresp[f] = nf
	}
	m.markDirty()
	return newFaces, connectingFaces, corresp, nil
}

func (m *Mesh) bevelFace(f FaceHandle, createConnecting bool, offset geom.Vec3) (FaceHandle, []FaceHandle, error) {
	if !m.Topo.IsValidFace(f) {
		return 0, nil, newErr(StaleHandle, "bevel_faces: face %v is not live", f)
	}
	verts := m.Topo.VerticesOfFace(f)
	uvByVertex := map[VertexHandle]geom.Vec2{}
	for _, h := range m.Topo.EdgesOfFace(f) {
		uvByVertex[m.Topo.EndVertex(h)] = m.Texcoord(h)
	}

	n := len(verts)
	dup := make([]VertexHandle, n)
	newUV := map[VertexHandle]geom.Vec2{}
	for i, v := range verts {
		dup[i] = m.AddVertex(m.Position(v).Add(offset))
		newUV[dup[i]] = uvByVertex[v]
	}

	// The duplicate cap is wound opposite to the original, so the side
	// quads below can pair with both loops' edges; its normal is therefore
	// the reverse of the original face's normal.
	topLoop := make([]VertexHandle, n)
	for i, v := range dup {
		topLoop[n-1-i] = v
	}
	newFace, err := m.AddFace(topLoop)
	if err != nil {
		return 0, nil, err
	}
	m.restoreTexcoords(dup, newUV)
	m.materialID.Set(int(indexOf(newFace)), m.MaterialID(f))

	var connecting []FaceHandle
	if createConnecting {
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			loop := []VertexHandle{verts[j], verts[i], dup[i], dup[j]}
			cf, cerr := m.AddFace(loop)
			if cerr != nil {
				return newFace, connecting, cerr
			}
			m.materialID.Set(int(indexOf(cf)), m.MaterialID(f))
			connecting = append(connecting, cf)
		}
	}
	return newFace, connecting, nil
}

// ExtendEdges extrudes a line-strip of open edges outward by amount along
// each edge's (face normal x edge direction) (spec.md §4.2). Vertices
// shared by more than one input edge get a single new copy, offset by the
// average of the contributing edges' directions, so a connected strip
// extrudes as one continuous flange rather than per-edge fragments. An
// amount of 0 produces zero-area quads (property B2), which the
// Rebuilder's degenerate-area check silently drops.
func (m *Mesh) ExtendEdges(edges []EdgeHandle, amount float64) ([]EdgeHandle, error) {
	type edgeInfo struct {
		v0, v1    VertexHandle
		offsetDir geom.Vec3
	}
	offsetSum := map[VertexHandle]geom.Vec3{}
	offsetCount := map[VertexHandle]int{}
	var infos []edgeInfo

	for _, e := range edges {
		if !m.Topo.IsValidHalfEdge(HalfEdgeHandle(e)) {
			return nil, newErr(StaleHandle, "extend_edges: edge %v is not live", e)
		}
		open, faced, ok := m.Topo.boundaryHalfEdge(e)
		if !ok {
			return nil, newErr(NonManifold, "extend_edges: edge %v must border exactly one face", e)
		}
		v0, v1 := m.Topo.EndVertex(m.Topo.Twin(open)), m.Topo.EndVertex(open)
		edgeDir := m.Position(v1).Sub(m.Position(v0))
		if edgeDir.Length() < 1e-9 {
			continue
		}
		edgeDir = edgeDir.Normalize()

		var faceNormal geom.Vec3
		if f := m.Topo.FaceOf(faced); !f.IsNil() {
			faceNormal = m.FaceNormal(f)
		}
		offsetDir := faceNormal.Cross(edgeDir)
		if offsetDir.Length() > 1e-9 {
			offsetDir = offsetDir.Normalize()
		}

		infos = append(infos, edgeInfo{v0: v0, v1: v1, offsetDir: offsetDir})
		offsetSum[v0] = offsetSum[v0].Add(offsetDir)
		offsetCount[v0]++
		offsetSum[v1] = offsetSum[v1].Add(offsetDir)
		offsetCount[v1]++
	}

	created := map[VertexHandle]VertexHandle{}
	newVertex := func(v VertexHandle) VertexHandle {
		if nv, ok := created[v]; ok {
			return nv
		}
		avg := offsetSum[v].Scale(1 / float32(offsetCount[v]))
		if avg.Length() > 1e-9 {
			avg = avg.Normalize()
		}
		nv := m.AddVertex(m.Position(v).Add(avg.Scale(float32(amount))))
		created[v] = nv
		return nv
	}

	var newEdges []EdgeHandle
	for _, info := range infos {
		nv0, nv1 := newVertex(info.v0), newVertex(info.v1)
		if _, err := m.AddFace([]VertexHandle{info.v0, info.v1, nv1, nv0}); err != nil {
			return nil, err
		}
		if e, ok := m.Topo.EdgeBetween(nv0, nv1); ok {
			newEdges = append(newEdges, e)
		}
	}
	m.markDirty()
	return newEdges, nil
}

// SplitEdges duplicates each internal edge in edges into two co-located
// open edges, tearing the mesh apart along that edge (spec.md §4.2): the
// face on one side is rebuilt against a fresh vertex pair placed at the
// original positions, while the other side's face is left untouched.
func (m *Mesh) SplitEdges(edges []EdgeHandle) ([]EdgeHandle, error) {
	var out []EdgeHandle
	for _, e := range edges {
		ne, err := m.splitEdge(e)
		if err != nil {
			return nil, err
		}
		out = append(out, ne)
	}
	m.markDirty()
	return out, nil
}

func (m *Mesh) splitEdge(e EdgeHandle) (EdgeHandle, error) {
	if !m.Topo.IsValidHalfEdge(HalfEdgeHandle(e)) {
		return 0, newErr(StaleHandle, "split_edges: edge %v is not live", e)
	}
	fa, fb := m.Topo.FacesOfEdge(e)
	if fa.IsNil() || fb.IsNil() {
		return 0, newErr(NonManifold, "split_edges: edge %v needs a face on both sides to tear", e)
	}
	v0, v1 := m.Topo.VerticesOfEdge(e)

	loop := m.Topo.VerticesOfFace(fb)
	uvByVertex := map[VertexHandle]geom.Vec2{}
	for _, h := range m.Topo.EdgesOfFace(fb) {
		uvByVertex[m.Topo.EndVertex(h)] = m.Texcoord(h)
	}

	v0p := m.AddVertex(m.Position(v0))
	v1p := m.AddVertex(m.Position(v1))

	if err := m.RemoveFace(fb, true); err != nil {
		return 0, err
	}

	newLoop := make([]VertexHandle, len(loop))
	newUV := map[VertexHandle]geom.Vec2{}
	for i, v := range loop {
		switch v {
		case v0:
			newLoop[i] = v0p
			newUV[v0p] = uvByVertex[v0]
		case v1:
			newLoop[i] = v1p
			newUV[v1p] = uvByVertex[v1]
		default:
			newLoop[i] = v
			newUV[v] = uvByVertex[v]
		}
	}
	if _, err := m.AddFace(newLoop); err != nil {
		return 0, err
	}
	m.restoreTexcoords(newLoop, newUV)

	ne, _ := m.Topo.EdgeBetween(v0p, v1p)
	return ne, nil
}
