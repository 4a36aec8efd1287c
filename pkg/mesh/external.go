package mesh

import "github.com/chazu/meshkernel/pkg/geom"

// External interfaces named only by contract, not implementation
// (spec.md §6). Defined here rather than in pkg/rebuild because Mesh
// itself depends on IMaterialResolver at SetMaterial-time; pkg/rebuild
// imports these from pkg/mesh instead of the other way around.

// Transform is a rigid transform: position, rotation, scale.
type Transform interface {
	PointToWorld(local geom.Vec3) geom.Vec3
	Inverse() Transform
}

// RenderVertex is one corner emitted to an IRenderMesh sink.
type RenderVertex struct {
	Position geom.Vec3
	Normal   geom.Vec3
	Tangent  geom.Vec3
	Texcoord geom.Vec2
}

// IRenderMesh receives one renderable submesh at a time.
type IRenderMesh interface {
	Submesh(vertices []RenderVertex, indices []int, material any, bounds geom.Bounds, uvDensity float32)
}

// ICollisionSink receives the single combined collision buffer plus a
// convex-hull candidate set.
type ICollisionSink interface {
	Collide(positions []geom.Vec3, indices []int, perTriangleMaterial []byte, hullCandidates []geom.Vec3)
}

// IMaterialResolver maps an external material reference to a local
// compact id, its surface, and its texture dimensions.
type IMaterialResolver interface {
	Resolve(external any) (localID int32, surface any, textureDims geom.Vec2, err error)
}
