// Package config holds the tunables for the meshkernel CLI driver: a flat
// struct of literal defaults overridable by flag, the same shape
// chazu-lignin/app.go uses for its own App fields (constructed with
// literal defaults, mutated by explicit setters rather than loaded from
// an external file format).
package config

import "flag"

// Config holds the operating parameters of cmd/meshkernel.
type Config struct {
	// SmoothingThresholdDegrees is the default dihedral-angle cutoff for
	// Mesh.SmoothingThreshold when a mesh does not set its own.
	SmoothingThresholdDegrees float64

	// DefaultTextureWidth and DefaultTextureHeight size new texture
	// parameter blocks absent an explicit image size.
	DefaultTextureWidth  int
	DefaultTextureHeight int

	// MergeDistance is the default tolerance passed to
	// Mesh.MergeVerticesWithinDistance.
	MergeDistance float64

	// OutputPath is where cmd/meshkernel writes the rebuilt collision buffer.
	OutputPath string
}

// Default returns the kernel's baseline configuration.
func Default() Config {
	return Config{
		SmoothingThresholdDegrees: 60,
		DefaultTextureWidth:       1024,
		DefaultTextureHeight:      1024,
		MergeDistance:             1e-4,
		OutputPath:                "out.mesh",
	}
}

// RegisterFlags binds c's fields to CLI flags on fs, so callers can do:
//
//	cfg := config.Default()
//	cfg.RegisterFlags(flag.CommandLine)
//	flag.Parse()
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.SmoothingThresholdDegrees, "smoothing-threshold", c.SmoothingThresholdDegrees, "default smoothing dihedral angle in degrees")
	fs.IntVar(&c.DefaultTextureWidth, "texture-width", c.DefaultTextureWidth, "default texture width in pixels")
	fs.IntVar(&c.DefaultTextureHeight, "texture-height", c.DefaultTextureHeight, "default texture height in pixels")
	fs.Float64Var(&c.MergeDistance, "merge-distance", c.MergeDistance, "vertex merge tolerance")
	fs.StringVar(&c.OutputPath, "out", c.OutputPath, "output path for the rebuilt mesh")
}
