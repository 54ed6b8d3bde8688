package hoplite

import (
	"log"

	"github.com/cogentcore/webgpu/wgpu"
)

// Context owns the WebGPU resources every rendering pass consumes: the
// surface for presenting to the window, the logical device for creating
// resources and pipelines, the queue for submitting command buffers, and the
// current surface configuration.
//
// A Context is created once at startup from a surface descriptor (typically
// produced by wgpuglfw from a window handle) and passed by pointer to every
// pass and graph in the engine.
//
// Thread Safety:
// Context is NOT safe for concurrent use. The engine records and submits all
// GPU work from a single goroutine.
type Context struct {
	// Instance is the top-level WebGPU instance.
	Instance *wgpu.Instance

	// Surface presents rendered frames to the window.
	Surface *wgpu.Surface

	// Adapter is the physical GPU the device was created from.
	Adapter *wgpu.Adapter

	// Device is the logical GPU device for creating resources.
	Device *wgpu.Device

	// Queue submits recorded command buffers to the GPU.
	Queue *wgpu.Queue

	// Config is the current surface configuration (format, size, present
	// mode). Reconfigured on resize.
	Config wgpu.SurfaceConfiguration
}

// NewContext performs all WebGPU initialization: instance and surface
// creation, adapter selection, device and queue acquisition, and surface
// configuration with Fifo presentation.
//
// Adapter or device acquisition failure is unrecoverable at this layer and
// panics with diagnostic context.
func NewContext(desc *wgpu.SurfaceDescriptor, width, height uint32) *Context {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(desc)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
	})
	if err != nil {
		panic("hoplite: failed to find a suitable GPU adapter: " + err.Error())
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Hoplite Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic("hoplite: failed to create device: " + err.Error())
	}

	ctx := &Context{
		Instance: instance,
		Surface:  surface,
		Adapter:  adapter,
		Device:   device,
		Queue:    device.GetQueue(),
	}

	caps := surface.GetCapabilities(adapter)
	ctx.Config = wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &ctx.Config)

	log.Printf("hoplite: surface configured %dx%d format=%v", width, height, ctx.Config.Format)

	return ctx
}

// Resize reconfigures the surface to new dimensions. Zero-sized dimensions
// are ignored; they occur during window minimize and would trip surface
// validation.
func (c *Context) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.Config.Width = width
	c.Config.Height = height
	c.Surface.Configure(c.Adapter, c.Device, &c.Config)
}

// Width returns the current surface width in pixels.
func (c *Context) Width() uint32 { return c.Config.Width }

// Height returns the current surface height in pixels.
func (c *Context) Height() uint32 { return c.Config.Height }

// Aspect returns the current aspect ratio (width / height).
func (c *Context) Aspect() float32 {
	return float32(c.Config.Width) / float32(c.Config.Height)
}

// Format returns the surface pixel format.
func (c *Context) Format() wgpu.TextureFormat { return c.Config.Format }

// AcquireFrame acquires the next presentable surface texture and a view into
// it. The caller owns both and must Release them after presenting.
func (c *Context) AcquireFrame() (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := c.Surface.GetCurrentTexture()
	if err != nil {
		return nil, nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}

// Release frees the GPU resources held by the context.
func (c *Context) Release() {
	if c.Device != nil {
		c.Device.Release()
		c.Device = nil
	}
	if c.Adapter != nil {
		c.Adapter.Release()
		c.Adapter = nil
	}
	if c.Surface != nil {
		c.Surface.Release()
		c.Surface = nil
	}
	if c.Instance != nil {
		c.Instance.Release()
		c.Instance = nil
	}
}
