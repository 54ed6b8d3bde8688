package graph

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
)

func TestNeedsResize(t *testing.T) {
	target := &RenderTarget{width: 800, height: 600}

	tests := []struct {
		name          string
		width, height uint32
		want          bool
	}{
		{"same size", 800, 600, false},
		{"wider", 1024, 600, true},
		{"taller", 800, 768, true},
		{"both", 1920, 1080, true},
		{"zero", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := target.needsResize(tt.width, tt.height); got != tt.want {
				t.Errorf("needsResize(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestEnsureSizeNoopKeepsView(t *testing.T) {
	// While the size matches, EnsureSize must not recreate the target:
	// node bind groups may reference the existing view.
	view := new(wgpu.TextureView)
	target := &RenderTarget{view: view, width: 640, height: 480}

	gpu := &hoplite.Context{}
	gpu.Config.Width = 640
	gpu.Config.Height = 480

	if err := target.EnsureSize(gpu, "test"); err != nil {
		t.Fatal(err)
	}
	if target.View() != view {
		t.Error("EnsureSize recreated a correctly sized target")
	}
}
