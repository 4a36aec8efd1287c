// Package mesh implements the editable half-edge mesh kernel: manifold
// topology (topology.go), named typed attribute streams (streams.go),
// and the Mesh core that combines them with the standard geometry
// streams and the higher-level editing operators (spec.md §4.2-§4.4).
package mesh

import (
	"math"

	"github.com/chazu/meshkernel/pkg/geom"
)

// State is the mesh's Clean/Dirty lifecycle (spec.md §4.4): any operator
// dirties the mesh; Rebuilder.Rebuild transitions it back to Clean.
type State int

const (
	Clean State = iota
	Dirty
)

// MaterialID identifies a locally compacted material slot; -1 means
// unassigned (spec.md §3).
type MaterialID int32

const UnassignedMaterial MaterialID = -1

// Mesh owns a Topology plus the fixed set of standard per-element
// streams spec.md §3/§4.4 names, and hosts the editing operators and
// queries built on top of Topology's Euler primitives.
type Mesh struct {
	Topo *Topology

	position Stream[geom.Vec3]
	texcoord Stream[geom.Vec2]
	smoothing Stream[SmoothingFlag]

	textureUAxis Stream[geom.Vec3]
	textureVAxis Stream[geom.Vec3]
	textureScale Stream[geom.Vec2]
	textureOffset Stream[geom.Vec2]
	materialID Stream[MaterialID]

	materials           []externalMaterialRef
	smoothingThresholdCos float32

	state State
}

// externalMaterialRef is the compact table entry backing I6: faces only
// ever store a local_id into this slice; the external reference itself
// is opaque to the kernel (spec.md §6, IMaterialResolver).
type externalMaterialRef struct {
	external    any
	surface     any
	textureDims geom.Vec2
}

// New returns an empty mesh with all standard streams registered and a
// default 60-degree smoothing threshold.
func New() *Mesh {
	topo := NewTopology()
	m := &Mesh{
		Topo:                  topo,
		position:              *NewStream[geom.Vec3]("position", KindVertex, 0),
		texcoord:              *NewStream[geom.Vec2]("texcoord", KindHalfEdge, 0),
		smoothing:             *NewStream[SmoothingFlag]("smoothing_flag", KindHalfEdge, 0),
		textureUAxis:          *NewStream[geom.Vec3]("texture_u_axis", KindFace, 0),
		textureVAxis:          *NewStream[geom.Vec3]("texture_v_axis", KindFace, 0),
		textureScale:          *NewStream[geom.Vec2]("texture_scale", KindFace, 0),
		textureOffset:         *NewStream[geom.Vec2]("texture_offset", KindFace, 0),
		materialID:            *NewStream[MaterialID]("material_id", KindFace, 0),
		smoothingThresholdCos: cosDegrees(60),
	}
	for _, s := range []rawStream{&m.position, &m.texcoord, &m.smoothing, &m.textureUAxis, &m.textureVAxis, &m.textureScale, &m.textureOffset, &m.materialID} {
		topo.registerStream(s)
	}
	return m
}

func (m *Mesh) markDirty() { m.state = Dirty }

// State returns the mesh's current Clean/Dirty state.
func (m *Mesh) State() State { return m.state }

// SmoothingThreshold sets the smoothing cutoff in degrees, validating
// the documented [0, 180] domain (spec.md §7: OutOfRange).
func (m *Mesh) SmoothingThreshold(degrees float64) error {
	if degrees < 0 || degrees > 180 {
		return newErr(OutOfRange, "smoothing threshold %v degrees outside [0, 180]", degrees)
	}
	m.smoothingThresholdCos = cosDegrees(degrees)
	return nil
}

// SmoothingThresholdCos returns the cosine of the current smoothing
// threshold angle, the form pkg/rebuild's normal-smoothing walk compares
// adjacent face normals against (spec.md §4.7).
func (m *Mesh) SmoothingThresholdCos() float32 { return m.smoothingThresholdCos }

// MarkClean transitions the mesh to Clean; called by pkg/rebuild after a
// successful Rebuild (spec.md §4.4: "Rebuilder's rebuild() transitions
// to Clean").
func (m *Mesh) MarkClean() { m.state = Clean }

// Position returns v's position.
func (m *Mesh) Position(v VertexHandle) geom.Vec3 {
	return m.position.Get(int(indexOf(v)))
}

// SetPosition sets v's position.
func (m *Mesh) SetPosition(v VertexHandle, p geom.Vec3) {
	m.position.Set(int(indexOf(v)), p)
	m.markDirty()
}

// Texcoord returns the per-corner UV at half-edge h.
func (m *Mesh) Texcoord(h HalfEdgeHandle) geom.Vec2 {
	return m.texcoord.Get(int(indexOf(h)))
}

// SetTexcoord sets the per-corner UV at half-edge h.
func (m *Mesh) SetTexcoord(h HalfEdgeHandle, uv geom.Vec2) {
	m.texcoord.Set(int(indexOf(h)), uv)
	m.markDirty()
}

// Smoothing returns h's smoothing flag.
func (m *Mesh) Smoothing(h HalfEdgeHandle) SmoothingFlag {
	return m.smoothing.Get(int(indexOf(h)))
}

// SetSmoothing sets h's smoothing flag.
func (m *Mesh) SetSmoothing(h HalfEdgeHandle, flag SmoothingFlag) {
	m.smoothing.Set(int(indexOf(h)), flag)
	m.markDirty()
}

// TextureParams returns face f's current projection parameters.
func (m *Mesh) TextureParams(f FaceHandle) (uAxis, vAxis geom.Vec3, scale, offset geom.Vec2) {
	i := int(indexOf(f))
	return m.textureUAxis.Get(i), m.textureVAxis.Get(i), m.textureScale.Get(i), m.textureOffset.Get(i)
}

// SetTextureParams sets face f's projection parameters.
func (m *Mesh) SetTextureParams(f FaceHandle, uAxis, vAxis geom.Vec3, scale, offset geom.Vec2) {
	i := int(indexOf(f))
	m.textureUAxis.Set(i, uAxis)
	m.textureVAxis.Set(i, vAxis)
	m.textureScale.Set(i, scale)
	m.textureOffset.Set(i, offset)
	m.markDirty()
}

// MaterialID returns face f's compact local material id, or
// UnassignedMaterial.
func (m *Mesh) MaterialID(f FaceHandle) MaterialID {
	return m.materialID.Get(int(indexOf(f)))
}

// SetMaterial assigns face f to the material external resolves to,
// resolving lazily (memoized) the first time that external reference is
// seen — spec.md §6's "called lazily the first time a face is assigned a
// material", grounded on the lazy-resolve-and-cache shape of
// chazu-lignin/pkg/graph's PartRegistry-style lookups.
func (m *Mesh) SetMaterial(f FaceHandle, resolver IMaterialResolver, external any) error {
	for i, ref := range m.materials {
		if ref.external == external {
			m.materialID.Set(int(indexOf(f)), MaterialID(i))
			m.markDirty()
			return nil
		}
	}
	_, surface, dims, err := resolver.Resolve(external)
	if err != nil {
		return err
	}
	m.materials = append(m.materials, externalMaterialRef{external: external, surface: surface, textureDims: dims})
	m.materialID.Set(int(indexOf(f)), MaterialID(len(m.materials)-1))
	m.markDirty()
	return nil
}

// MaterialTextureDims returns the texture dimensions resolved for face
// f's material, or (512, 512) if f has no assigned material (spec.md
// §4.5: "defaults to 512 if unknown").
func (m *Mesh) MaterialTextureDims(f FaceHandle) geom.Vec2 {
	id := m.MaterialID(f)
	if id < 0 || int(id) >= len(m.materials) {
		return geom.Vec2{X: 512, Y: 512}
	}
	dims := m.materials[id].textureDims
	if dims.X <= 0 {
		dims.X = 512
	}
	if dims.Y <= 0 {
		dims.Y = 512
	}
	return dims
}

// MaterialSurface returns the resolved surface for face f's material, or
// nil if unassigned.
func (m *Mesh) MaterialSurface(f FaceHandle) any {
	id := m.MaterialID(f)
	if id < 0 || int(id) >= len(m.materials) {
		return nil
	}
	return m.materials[id].surface
}

// RegisterStream adds a user-defined named stream of element kind k,
// sized to the topology's current capacity for that kind so I5 holds
// immediately (spec.md §4.3).
func RegisterStream[T any](m *Mesh, name string, k ElementKind) *Stream[T] {
	cap := 0
	switch k {
	case KindVertex:
		cap = m.Topo.vertPool.Cap()
	case KindHalfEdge:
		cap = m.Topo.hePool.Cap()
	case KindFace:
		cap = m.Topo.facePool.Cap()
	}
	s := NewStream[T](name, k, cap)
	m.Topo.registerStream(s)
	return s
}

func cosDegrees(d float64) float32 {
	return float32(math.Cos(d * math.Pi / 180))
}
