// Package rebuild implements the Rebuilder (spec.md §4.7): it walks a
// mesh.Mesh grouped by material, triangulates each face, computes
// smoothed normals/tangents and texcoords, and emits one Submesh per
// material plus a single combined collision buffer.
//
// Grounded on the walk-and-group shape of
// chazu-lignin/pkg/tessellate.Tessellate (which walks a graph grouping
// output by node) and the triangle-buffer-building loop of
// chazu-lignin/pkg/kernel/sdfx/sdfx.go's ToMesh (which walks triangles
// building parallel vertex/normal/index slices) — adapted here from
// "walk marching-cubes triangles" to "walk half-edge face corners".
package rebuild

import (
	"math"
	"sort"

	"github.com/chazu/meshkernel/pkg/geom"
	"github.com/chazu/meshkernel/pkg/mesh"
)

// Triangle records one emitted collision triangle's originating face,
// for picking (spec.md §4.7 point 4).
type Triangle struct {
	Indices    [3]int
	MaterialID byte
	Origin     mesh.FaceHandle
}

// Model is the Rebuilder's output: every render submesh already
// delivered to renderSink, plus the combined collision buffer kept here
// for convenience (also delivered to collisionSink during Rebuild).
type Model struct {
	Positions  []geom.Vec3
	Indices    []int
	Materials  []byte
	Triangles  []Triangle
	HullPoints []geom.Vec3
}

const degenerateAreaEps = 1e-12

// Rebuild walks m grouped by material, triangulating and smoothing each
// face, delivering one Submesh per material to renderSink and the
// combined collision buffer to collisionSink. Mesh transitions to Clean
// on success.
func Rebuild(m *mesh.Mesh, xf mesh.Transform, renderSink mesh.IRenderMesh, collisionSink mesh.ICollisionSink) (*Model, error) {
	groups := map[mesh.MaterialID][]mesh.FaceHandle{}
	for _, f := range m.AllFaces() {
		id := m.MaterialID(f)
		groups[id] = append(groups[id], f)
	}

	var materialIDs []mesh.MaterialID
	for id := range groups {
		materialIDs = append(materialIDs, id)
	}
	sort.Slice(materialIDs, func(i, j int) bool { return materialIDs[i] < materialIDs[j] })

	model := &Model{}
	for _, id := range materialIDs {
		faces := groups[id]
		sub := buildSubmesh(m, faces, xf, byte(id&0xff))
		if len(sub.renderVerts) == 0 {
			continue
		}
		if renderSink != nil {
			renderSink.Submesh(sub.renderVerts, sub.renderIndices, m.MaterialSurface(faces[0]), sub.bounds, sub.uvDensity)
		}
		base := len(model.Positions)
		model.Positions = append(model.Positions, sub.localPositions...)
		for _, tri := range sub.triangles {
			model.Indices = append(model.Indices, base+tri.Indices[0], base+tri.Indices[1], base+tri.Indices[2])
			model.Materials = append(model.Materials, tri.MaterialID)
			model.Triangles = append(model.Triangles, tri)
		}
		model.HullPoints = append(model.HullPoints, sub.localPositions...)
	}

	if collisionSink != nil {
		collisionSink.Collide(model.Positions, model.Indices, model.Materials, model.HullPoints)
	}
	m.MarkClean()
	return model, nil
}

type submeshBuild struct {
	renderVerts    []mesh.RenderVertex
	renderIndices  []int
	localPositions []geom.Vec3
	triangles      []Triangle
	bounds         geom.Bounds
	uvDensity      float32
}

func buildSubmesh(m *mesh.Mesh, faces []mesh.FaceHandle, xf mesh.Transform, materialByte byte) submeshBuild {
	var sub submeshBuild
	sub.bounds = geom.EmptyBounds()
	var densitySamples []float32

	for _, f := range faces {
		worldPositions := m.FacePositions(f, xf)
		localPositions := m.FacePositions(f, nil)
		idx := geom.Triangulate(worldPositions)
		if len(idx) < 3 || len(idx)%3 != 0 {
			continue
		}
		corners := m.Topo.EdgesOfFace(f)
		cornerUV := make([]geom.Vec2, len(corners))
		for i, h := range corners {
			cornerUV[i] = m.Texcoord(h)
		}
		uAxis, vAxis, _, _ := m.TextureParams(f)

		for t := 0; t+3 <= len(idx); t += 3 {
			i0, i1, i2 := idx[t], idx[t+1], idx[t+2]
			a, b, c := worldPositions[i0], worldPositions[i1], worldPositions[i2]
			areaWorld := geom.NormalFromTriangle(a, b, c).Length() * 0.5
			if areaWorld < degenerateAreaEps {
				continue
			}

			base := len(sub.renderVerts)
			for _, ci := range []int{i0, i1, i2} {
				n := smoothedNormal(m, f, corners[ci%len(corners)])
				tangent := tangentFor(uAxis, vAxis, n)
				sub.renderVerts = append(sub.renderVerts, mesh.RenderVertex{
					Position: localPositions[ci],
					Normal:   n,
					Tangent:  tangent,
					Texcoord: cornerUV[ci],
				})
				sub.localPositions = append(sub.localPositions, localPositions[ci])
				sub.bounds = sub.bounds.Encapsulate(localPositions[ci])
			}
			sub.renderIndices = append(sub.renderIndices, base, base+1, base+2)
			localBase := len(sub.localPositions) - 3
			sub.triangles = append(sub.triangles, Triangle{
				Indices:    [3]int{localBase, localBase + 1, localBase + 2},
				MaterialID: materialByte,
				Origin:     f,
			})

			areaUV := geom.Vec2{X: cornerUV[i1].X - cornerUV[i0].X, Y: cornerUV[i1].Y - cornerUV[i0].Y}.Cross(
				geom.Vec2{X: cornerUV[i2].X - cornerUV[i0].X, Y: cornerUV[i2].Y - cornerUV[i0].Y})
			if areaUV < 0 {
				areaUV = -areaUV
			}
			areaUV *= 0.5
			if areaUV > 1e-12 {
				densitySamples = append(densitySamples, sqrtf(areaWorld/areaUV))
			}
		}
	}

	sub.uvDensity = percentileFromTop(densitySamples, 0.10)
	return sub
}

// smoothedNormal accumulates adjacent face normals across every edge at
// vertex v's corner in f whose smoothing rule allows it (spec.md §4.7):
// Soft always crosses; Hard and open edges never do; Default crosses
// when the adjacent faces' normal dot exceeds cos(threshold)+eps.
func smoothedNormal(m *mesh.Mesh, f mesh.FaceHandle, cornerHalfEdge mesh.HalfEdgeHandle) geom.Vec3 {
	const eps = 1e-4
	v := m.Topo.EndVertex(cornerHalfEdge)
	faceNormal := m.FaceNormal(f)

	visited := map[mesh.FaceHandle]bool{f: true}
	sum := faceNormal
	queue := []mesh.FaceHandle{f}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curNormal := m.FaceNormal(cur)
		for _, h := range m.Topo.EdgesOfFace(cur) {
			if m.Topo.EndVertex(h) != v && m.Topo.StartVertex(h) != v {
				continue
			}
			twin := m.Topo.Twin(h)
			other := m.Topo.FaceOf(twin)
			if other.IsNil() || visited[other] {
				continue
			}
			flag := m.Smoothing(h)
			if flag == mesh.SmoothingHard {
				continue
			}
			crosses := flag == mesh.SmoothingSoft
			if !crosses {
				otherNormal := m.FaceNormal(other)
				crosses = curNormal.Dot(otherNormal) > m.SmoothingThresholdCos()+eps
			}
			if !crosses {
				continue
			}
			visited[other] = true
			sum = sum.Add(m.FaceNormal(other))
			queue = append(queue, other)
		}
	}
	return sum.Normalize()
}

// tangentFor derives f's tangent from its texture U axis, orthogonalized
// against the shading normal, then flips it if it doesn't agree with the
// independent V-axis reference's handedness (spec.md §4.7: "flip if
// dot(cross(n,t), bitangent) < 0" — bitangent here is vAxis, not a vector
// derived from n and t themselves).
func tangentFor(uAxis, vAxis, normal geom.Vec3) geom.Vec3 {
	t := uAxis.Sub(normal.Scale(uAxis.Dot(normal)))
	if t.Length() < 1e-9 {
		return geom.Vec3{}
	}
	t = t.Normalize()
	bitangent := vAxis.Sub(normal.Scale(vAxis.Dot(normal)))
	if normal.Cross(t).Dot(bitangent) < 0 {
		t = t.Scale(-1)
	}
	return t
}

func sqrtf(x float32) float32 {
	if x <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(x)))
}

// percentileFromTop returns the value at the given fraction down from
// the top of sorted descending samples (spec.md §4.7: "10th-percentile-
// from-top").
func percentileFromTop(samples []float32, fraction float64) float32 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float32(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	idx := int(float64(len(sorted)-1) * fraction)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
