package assets

import "errors"

// Loader errors. These are caller errors, reported synchronously from the
// submitting call. Failures of the load itself (missing file, decode error,
// backend failure) are never returned here; they arrive in the completion
// callback's Result.
var (
	// ErrClosed is returned when submitting to a closed loader.
	ErrClosed = errors.New("assets: loader closed")

	// ErrQueueFull is returned when the work queue is at the cap set by
	// WithMaxPending.
	ErrQueueFull = errors.New("assets: work queue full")

	// ErrEmptyPath is returned when submitting an empty path.
	ErrEmptyPath = errors.New("assets: empty path")

	// ErrNoTextureBackend is the per-load failure reported when a texture
	// finishes I/O but no TextureBackend was configured.
	ErrNoTextureBackend = errors.New("assets: no texture backend configured")

	// ErrNoAudioBackend is the per-load failure reported when a sound or
	// music track finishes I/O but no audio Backend was configured.
	ErrNoAudioBackend = errors.New("assets: no audio backend configured")
)
