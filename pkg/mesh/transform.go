package mesh

import "github.com/chazu/meshkernel/pkg/geom"

// RigidTransform is the concrete Transform of this package (cmd/meshkernel
// uses Identity()): translation plus uniform scale, enough to place a mesh
// in world space for Bounds/FacePositions/Rebuild without pulling in a
// quaternion or matrix library the kernel itself never needs.
type RigidTransform struct {
	Translation geom.Vec3
	Scale       float32
}

// Identity returns the no-op RigidTransform.
func Identity() RigidTransform { return RigidTransform{Scale: 1} }

func (t RigidTransform) PointToWorld(local geom.Vec3) geom.Vec3 {
	return local.Scale(t.Scale).Add(t.Translation)
}

func (t RigidTransform) Inverse() Transform {
	inv := t.Scale
	if inv == 0 {
		inv = 1
	}
	return RigidTransform{Translation: t.Translation.Scale(-1 / inv), Scale: 1 / inv}
}
