package assets

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/naga"

	"github.com/gogpu/assets/audio"
	"github.com/gogpu/assets/gpucore"
	"github.com/gogpu/assets/registry"
)

// finalize turns a task's raw I/O result into a live resource and registers
// it. It runs only on the Update goroutine: GPU and audio resources must be
// created on the thread that owns their context, which is the entire reason
// the pipeline is split into two phases.
//
// On any failure the partially created resource is released and the error
// recorded on the task; raw buffers are dropped either way.
func (l *Loader) finalize(t *task) {
	defer func() {
		t.pixels.Data = nil
		t.raw = nil
	}()

	if t.err != nil {
		return // I/O already failed; nothing to finalize
	}

	// A path that is already registered keeps its existing resource: take
	// another reference instead of building a duplicate. This mirrors the
	// registry's own duplicate-registration semantics and avoids creating
	// a GPU texture only to throw it away.
	if h := l.reg.Lookup(t.path); !h.IsNil() {
		l.reg.AddRef(h)
		t.handle = h
		return
	}

	var (
		data any
		err  error
	)
	switch t.typ {
	case registry.TypeTexture:
		data, err = l.finalizeTexture(t)
	case registry.TypeSound:
		data, err = l.finalizeSound(t)
	case registry.TypeMusic:
		data, err = l.finalizeMusic(t)
	case registry.TypeFont:
		data, err = finalizeFont(t)
	case registry.TypeShader:
		data, err = finalizeShader(t)
	default:
		// Prefab, scene, and plain data assets register their raw bytes.
		data = t.raw
	}
	if err != nil {
		t.err = err
		return
	}

	h, err := l.reg.Register(t.path, t.typ, data)
	if err != nil {
		l.destroyResource(t.typ, data)
		t.err = fmt.Errorf("assets: register %s: %w", t.path, err)
		return
	}
	t.handle = h
}

// finalizeTexture uploads decoded pixels to the GPU.
func (l *Loader) finalizeTexture(t *task) (any, error) {
	if l.cfg.textures == nil {
		return nil, ErrNoTextureBackend
	}
	id, err := l.cfg.textures.CreateTexture(
		t.pixels.Width, t.pixels.Height, gpucore.TextureFormatRGBA8Unorm, t.pixels.Data)
	if err != nil {
		return nil, fmt.Errorf("assets: create texture %s: %w", t.path, err)
	}
	return id, nil
}

// finalizeSound decodes raw bytes into a playable sound.
func (l *Loader) finalizeSound(t *task) (any, error) {
	if l.cfg.audio == nil {
		return nil, ErrNoAudioBackend
	}
	id, err := l.cfg.audio.CreateSound(t.raw)
	if err != nil {
		return nil, fmt.Errorf("assets: create sound %s: %w", t.path, err)
	}
	return id, nil
}

// finalizeMusic prepares raw bytes as a streamed track.
func (l *Loader) finalizeMusic(t *task) (any, error) {
	if l.cfg.audio == nil {
		return nil, ErrNoAudioBackend
	}
	id, err := l.cfg.audio.CreateMusic(t.raw)
	if err != nil {
		return nil, fmt.Errorf("assets: create music %s: %w", t.path, err)
	}
	return id, nil
}

// finalizeFont parses the font file into a face. The parsed *font.Face
// embeds the thread-safe *font.Font, so the registered datum may be shared.
func finalizeFont(t *task) (any, error) {
	face, err := font.ParseTTF(bytes.NewReader(t.raw))
	if err != nil {
		return nil, fmt.Errorf("assets: parse font %s: %w", t.path, err)
	}
	return face, nil
}

// finalizeShader compiles WGSL source to SPIR-V, which both validates the
// shader and leaves a blob any backend can consume.
func finalizeShader(t *task) (any, error) {
	spirv, err := naga.Compile(string(t.raw))
	if err != nil {
		return nil, fmt.Errorf("assets: compile shader %s: %w", t.path, err)
	}
	return spirv, nil
}

// destroyResource releases a freshly created resource that never made it
// into the registry.
func (l *Loader) destroyResource(typ registry.Type, data any) {
	switch typ {
	case registry.TypeTexture:
		if id, ok := data.(gpucore.TextureID); ok && l.cfg.textures != nil {
			l.cfg.textures.DestroyTexture(id)
		}
	case registry.TypeSound:
		if id, ok := data.(audio.SoundID); ok && l.cfg.audio != nil {
			l.cfg.audio.DestroySound(id)
		}
	case registry.TypeMusic:
		if id, ok := data.(audio.MusicID); ok && l.cfg.audio != nil {
			l.cfg.audio.DestroyMusic(id)
		}
	}
}
