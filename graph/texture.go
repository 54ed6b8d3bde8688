package graph

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
)

// Texture is a sampled RGBA8 texture with its view and sampler. Used for
// mesh surfaces and for uploading CPU-rendered overlay pixels.
type Texture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Sampler *wgpu.Sampler

	width  uint32
	height uint32
}

// NewTexture uploads raw RGBA pixels as a sampled texture. data must hold
// width*height*4 bytes.
func NewTexture(gpu *hoplite.Context, data []byte, width, height uint32, label string) (*Texture, error) {
	if uint32(len(data)) != width*height*4 {
		return nil, fmt.Errorf("graph: texture %q: got %d bytes, want %d for %dx%d RGBA", label, len(data), width*height*4, width, height)
	}

	texture, err := gpu.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: create texture %q: %w", label, err)
	}

	gpu.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("graph: create texture view %q: %w", label, err)
	}

	sampler, err := gpu.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, fmt.Errorf("graph: create texture sampler %q: %w", label, err)
	}

	return &Texture{
		Texture: texture,
		View:    view,
		Sampler: sampler,
		width:   width,
		height:  height,
	}, nil
}

// LoadTexture decodes an image file (PNG or JPEG) into a sampled texture.
func LoadTexture(gpu *hoplite.Context, path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graph: open texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("graph: decode texture %s: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return NewTexture(gpu, rgba.Pix, uint32(bounds.Dx()), uint32(bounds.Dy()), path)
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Update rewrites the full pixel contents. data must match the texture
// dimensions.
func (t *Texture) Update(gpu *hoplite.Context, data []byte) error {
	if uint32(len(data)) != t.width*t.height*4 {
		return fmt.Errorf("graph: texture update: got %d bytes, want %d", len(data), t.width*t.height*4)
	}
	gpu.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.Texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  t.width * 4,
			RowsPerImage: t.height,
		},
		&wgpu.Extent3D{
			Width:              t.width,
			Height:             t.height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// Release frees the GPU resources.
func (t *Texture) Release() {
	t.Sampler.Release()
	t.View.Release()
	t.Texture.Release()
}
