//go:build !nogpu

// Package gogpu provides a texture backend over the gogpu/gogpu framework.
//
// The adapter bridges gpucore.TextureBackend onto gpu.Backend, which supports
// both Rust (wgpu-native) and pure Go (gogpu/wgpu) implementations. The
// caller owns the device and queue; the adapter only creates, fills, and
// releases textures against them.
package gogpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gogpu/gpu"
	"github.com/gogpu/gogpu/gpu/types"

	"github.com/gogpu/assets/gpucore"
)

// Adapter implements gpucore.TextureBackend using gogpu/gogpu's gpu.Backend.
//
// Thread safety: Adapter is safe for concurrent use; the resource map is
// protected by a mutex. In practice the loader only calls it from the Update
// goroutine.
type Adapter struct {
	mu      sync.Mutex
	backend gpu.Backend
	device  types.Device
	queue   types.Queue

	nextID   atomic.Uint64
	textures map[gpucore.TextureID]types.Texture
}

// NewAdapter creates an adapter wrapping the given backend, device, and
// queue handles.
func NewAdapter(backend gpu.Backend, device types.Device, queue types.Queue) *Adapter {
	a := &Adapter{
		backend:  backend,
		device:   device,
		queue:    queue,
		textures: make(map[gpucore.TextureID]types.Texture),
	}
	// 0 is gpucore.InvalidID.
	a.nextID.Store(1)
	return a
}

// CreateTexture creates a 2D texture and uploads the pixel data to it.
func (a *Adapter) CreateTexture(width, height int, format gpucore.TextureFormat, pixels []byte) (gpucore.TextureID, error) {
	if width <= 0 || height <= 0 {
		return gpucore.InvalidID, fmt.Errorf("gogpu: texture dimensions must be positive, got %dx%d", width, height)
	}
	bpp := format.BytesPerPixel()
	if want := width * height * bpp; len(pixels) != want {
		return gpucore.InvalidID, fmt.Errorf("gogpu: pixel data is %d bytes, want %d for %dx%d", len(pixels), want, width, height)
	}

	desc := &types.TextureDescriptor{
		Size: types.Extent3D{
			Width:              safeIntToUint32(width),
			Height:             safeIntToUint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        convertTextureFormat(format),
		Usage:         types.TextureUsageCopySrc | types.TextureUsageCopyDst | types.TextureUsageStorageBinding,
	}

	texture, err := a.backend.CreateTexture(a.device, desc)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("gogpu: create texture: %w", err)
	}

	dst := &types.ImageCopyTexture{
		Texture:  texture,
		MipLevel: 0,
		Origin:   types.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   types.TextureAspectAll,
	}
	layout := &types.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  safeIntToUint32(width * bpp),
		RowsPerImage: safeIntToUint32(height),
	}
	a.backend.WriteTexture(a.queue, dst, pixels, layout, &desc.Size)

	id := gpucore.TextureID(a.nextID.Add(1) - 1)

	a.mu.Lock()
	a.textures[id] = texture
	a.mu.Unlock()

	return id, nil
}

// DestroyTexture releases a texture. Unknown IDs are ignored.
func (a *Adapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	texture, ok := a.textures[id]
	if ok {
		delete(a.textures, id)
	}
	a.mu.Unlock()

	if ok {
		a.backend.ReleaseTexture(texture)
	}
}

// Len returns the number of live textures the adapter tracks.
func (a *Adapter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.textures)
}

// convertTextureFormat converts gpucore.TextureFormat to types.TextureFormat.
// The pipeline decodes everything to RGBA8; sRGB tagging happens at sample
// time in the render pipeline, not at upload.
func convertTextureFormat(format gpucore.TextureFormat) types.TextureFormat {
	switch format {
	case gpucore.TextureFormatRGBA8Unorm, gpucore.TextureFormatRGBA8UnormSRGB:
		return types.TextureFormatRGBA8Unorm
	default:
		return types.TextureFormatRGBA8Unorm
	}
}

// safeIntToUint32 converts int to uint32, clamping out-of-range values.
func safeIntToUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	if v > int(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}

// Ensure Adapter implements gpucore.TextureBackend.
var _ gpucore.TextureBackend = (*Adapter)(nil)
