package assets

import (
	"io/fs"
	"runtime"

	"github.com/gogpu/assets/audio"
	"github.com/gogpu/assets/gpucore"
)

// Option configures a Loader during creation.
// Use functional options to customize Loader behavior.
//
// Example:
//
//	// Default configuration
//	l := assets.New(reg)
//
//	// Custom worker count and GPU backend (dependency injection)
//	l := assets.New(reg, assets.WithWorkers(2), assets.WithTextureBackend(tb))
type Option func(*config)

// config holds optional configuration for Loader creation.
type config struct {
	workers              int
	maxPending           int
	maxCompletedPerFrame int
	fsys                 fs.FS
	textures             gpucore.TextureBackend
	audio                audio.Backend
}

// defaultWorkers returns the default worker count: the number of CPUs,
// capped at 4. Loading is I/O bound, so more workers rarely help.
func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n
}

// defaultConfig returns the default loader options.
func defaultConfig() config {
	return config{
		workers: defaultWorkers(),
	}
}

// WithWorkers sets the number of background worker goroutines.
// Zero or negative selects the default (number of CPUs, capped at 4).
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithMaxPending caps the number of requests waiting in the work queue.
// When the cap is reached, submissions fail with ErrQueueFull.
// Zero (the default) means unlimited.
func WithMaxPending(n int) Option {
	return func(c *config) {
		c.maxPending = n
	}
}

// WithMaxCompletedPerFrame caps how many completion callbacks a single
// Update call dispatches, bounding per-frame callback cost.
// Zero (the default) means unlimited.
func WithMaxCompletedPerFrame(n int) Option {
	return func(c *config) {
		c.maxCompletedPerFrame = n
	}
}

// WithFS makes the loader read assets from fsys instead of the OS
// filesystem. Useful for embedded assets and tests.
func WithFS(fsys fs.FS) Option {
	return func(c *config) {
		c.fsys = fsys
	}
}

// WithTextureBackend sets the GPU backend texture loads finalize against.
// Without one, texture loads complete with an error.
func WithTextureBackend(tb gpucore.TextureBackend) Option {
	return func(c *config) {
		c.textures = tb
	}
}

// WithAudioBackend sets the audio backend sound and music loads finalize
// against. Without one, sound and music loads complete with an error.
func WithAudioBackend(ab audio.Backend) Option {
	return func(c *config) {
		c.audio = ab
	}
}
