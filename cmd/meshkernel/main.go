// Command meshkernel is the kernel's CLI driver: build a default cube,
// rebuild it, and write the resulting collision buffer (gob-encoded) to
// disk; it loads no mesh from disk and runs no other operators. Staged the way chazu-lignin/app.go's Evaluate
// method stages "evaluate -> tessellate -> convert", logging and
// aborting at the first failing stage instead of panicking.
package main

import (
	"encoding/gob"
	"flag"
	"log"
	"os"

	"github.com/chazu/meshkernel/pkg/config"
	"github.com/chazu/meshkernel/pkg/geom"
	"github.com/chazu/meshkernel/pkg/mesh"
	"github.com/chazu/meshkernel/pkg/meshlog"
	"github.com/chazu/meshkernel/pkg/rebuild"
)

// unassignedResolver assigns every face the same blank material, since
// the CLI driver has no asset pipeline of its own to resolve against.
type unassignedResolver struct{ dims geom.Vec2 }

func (r unassignedResolver) Resolve(external any) (int32, any, geom.Vec2, error) {
	return 0, external, r.dims, nil
}

// fileCollisionSink writes the combined collision buffer to w via gob,
// the simplest serialization chazu-lignin's own toolchain never needed
// (the app ships meshes to its frontend as JSON instead); gob is used
// here because the output is consumed only by this same binary.
type fileCollisionSink struct {
	encoder *gob.Encoder
	logger  *meshlog.Logger
}

type collisionRecord struct {
	Positions []geom.Vec3
	Indices   []int
	Materials []byte
}

func (s *fileCollisionSink) Collide(positions []geom.Vec3, indices []int, perTriangleMaterial []byte, hullCandidates []geom.Vec3) {
	if err := s.encoder.Encode(collisionRecord{Positions: positions, Indices: indices, Materials: perTriangleMaterial}); err != nil {
		s.logger.Printf("failed to write collision buffer: %v", err)
	}
}

type discardRenderMesh struct{ logger *meshlog.Logger }

func (d discardRenderMesh) Submesh(vertices []mesh.RenderVertex, indices []int, material any, bounds geom.Bounds, uvDensity float32) {
	d.logger.Printf("submesh: %d verts, %d indices, uv_density=%.4f", len(vertices), len(indices), uvDensity)
}

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	logger := meshlog.New(os.Stderr).Op("meshkernel")

	// Step 1: build a default cube mesh; a future revision of this
	// driver would instead read a serialized mesh from flag.Arg(0).
	m := mesh.New()
	if err := m.SmoothingThreshold(cfg.SmoothingThresholdDegrees); err != nil {
		log.Fatal(err)
	}
	if err := buildDefaultCube(m, cfg); err != nil {
		log.Fatalf("build failed: %v", err)
	}

	// Step 2: rebuild into render + collision surfaces.
	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		log.Fatalf("cannot create output %q: %v", cfg.OutputPath, err)
	}
	defer out.Close()

	sink := &fileCollisionSink{encoder: gob.NewEncoder(out), logger: logger}
	model, err := rebuild.Rebuild(m, mesh.Identity(), discardRenderMesh{logger: logger}, sink)
	if err != nil {
		log.Fatalf("rebuild failed: %v", err)
	}

	logger.Printf("wrote %d triangles to %s", len(model.Indices)/3, cfg.OutputPath)
}

func buildDefaultCube(m *mesh.Mesh, cfg config.Config) error {
	resolver := unassignedResolver{dims: geom.Vec2{X: float32(cfg.DefaultTextureWidth), Y: float32(cfg.DefaultTextureHeight)}}

	corner := func(x, y, z float32) geom.Vec3 { return geom.Vec3{X: x, Y: y, Z: z} }
	coords := [8]geom.Vec3{
		corner(-0.5, -0.5, -0.5), corner(0.5, -0.5, -0.5),
		corner(0.5, 0.5, -0.5), corner(-0.5, 0.5, -0.5),
		corner(-0.5, -0.5, 0.5), corner(0.5, -0.5, 0.5),
		corner(0.5, 0.5, 0.5), corner(-0.5, 0.5, 0.5),
	}
	v := [8]mesh.VertexHandle{}
	for i, c := range coords {
		v[i] = m.AddVertex(c)
	}

	faceLoops := [][4]int{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {3, 7, 6, 2},
		{0, 4, 7, 3}, {1, 2, 6, 5},
	}
	for _, loop := range faceLoops {
		verts := make([]mesh.VertexHandle, len(loop))
		for i, idx := range loop {
			verts[i] = v[idx]
		}
		f, err := m.AddFace(verts)
		if err != nil {
			return err
		}
		if err := m.SetMaterial(f, resolver, nil); err != nil {
			return err
		}
	}
	return nil
}
