package config

import (
	"flag"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	c := Default()
	if c.SmoothingThresholdDegrees != 60 {
		t.Errorf("expected default smoothing threshold 60, got %v", c.SmoothingThresholdDegrees)
	}
	if c.DefaultTextureWidth != 1024 || c.DefaultTextureHeight != 1024 {
		t.Errorf("expected default 1024x1024 texture, got %dx%d", c.DefaultTextureWidth, c.DefaultTextureHeight)
	}
}

func TestRegisterFlagsOverridesDefault(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	if err := fs.Parse([]string{"-merge-distance=0.01", "-out=render.mesh"}); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if c.MergeDistance != 0.01 {
		t.Errorf("expected overridden merge distance 0.01, got %v", c.MergeDistance)
	}
	if c.OutputPath != "render.mesh" {
		t.Errorf("expected overridden output path, got %q", c.OutputPath)
	}
}
