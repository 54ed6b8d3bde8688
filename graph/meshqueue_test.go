package graph

import (
	"testing"

	"github.com/xandwr/hoplite"
)

func TestMeshQueueHandles(t *testing.T) {
	q := NewMeshQueue()
	cube := &Mesh{indexCount: 36}
	sphere := &Mesh{indexCount: 960}

	if h := q.AddMesh(cube); h != 0 {
		t.Errorf("first handle = %d, want 0", h)
	}
	if h := q.AddMesh(sphere); h != 1 {
		t.Errorf("second handle = %d, want 1", h)
	}

	if q.Mesh(0) != cube || q.Mesh(1) != sphere {
		t.Error("handles do not resolve to the registered meshes")
	}
	if q.Mesh(2) != nil || q.Mesh(-1) != nil {
		t.Error("out-of-range handle should resolve to nil")
	}
}

func TestMeshQueueDraw(t *testing.T) {
	q := NewMeshQueue()
	cube := q.AddMesh(&Mesh{indexCount: 36})
	tex := q.AddTexture(&Texture{width: 1, height: 1})

	q.Draw(cube, TransformAt(0, 1, 0), hoplite.Red)
	q.DrawTextured(cube, tex, NewTransform(), hoplite.White)

	calls := q.Calls()
	if len(calls) != 2 {
		t.Fatalf("len(Calls()) = %d, want 2", len(calls))
	}
	if calls[0].Texture != nil {
		t.Error("untextured draw carries a texture")
	}
	if calls[0].Color != hoplite.Red {
		t.Errorf("color = %v, want red", calls[0].Color)
	}
	if calls[1].Texture != q.Texture(tex) {
		t.Error("textured draw does not reference the registered texture")
	}
}

func TestMeshQueueDrawUnknownMesh(t *testing.T) {
	q := NewMeshQueue()
	q.Draw(5, NewTransform(), hoplite.White)
	if len(q.Calls()) != 0 {
		t.Error("draw with unknown mesh handle should be ignored")
	}
}

func TestMeshQueueDrawTexturedUnknownTexture(t *testing.T) {
	q := NewMeshQueue()
	cube := q.AddMesh(&Mesh{indexCount: 36})

	q.DrawTextured(cube, 7, NewTransform(), hoplite.White)

	calls := q.Calls()
	if len(calls) != 1 {
		t.Fatalf("len(Calls()) = %d, want 1", len(calls))
	}
	if calls[0].Texture != nil {
		t.Error("unknown texture handle should fall back to nil (default texture)")
	}
}

func TestMeshQueueClearKeepsResources(t *testing.T) {
	q := NewMeshQueue()
	cube := q.AddMesh(&Mesh{indexCount: 36})
	q.Draw(cube, NewTransform(), hoplite.White)

	q.ClearQueue()

	if len(q.Calls()) != 0 {
		t.Error("ClearQueue left calls queued")
	}
	if q.Mesh(cube) == nil {
		t.Error("ClearQueue dropped a registered mesh")
	}

	// Queue again next frame with the same handle.
	q.Draw(cube, NewTransform(), hoplite.Blue)
	if len(q.Calls()) != 1 {
		t.Error("queue unusable after ClearQueue")
	}
}
