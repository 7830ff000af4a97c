// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

// TextureBackend creates and destroys GPU textures on behalf of the asset
// pipeline's finalize phase.
//
// Implementations are only ever called from the goroutine that owns the GPU
// context (the goroutine driving Loader.Update); they do not need to be
// safe for concurrent use.
type TextureBackend interface {
	// CreateTexture creates a width×height texture and uploads the given
	// pixel buffer, whose layout must match format (tightly packed rows,
	// format.BytesPerPixel() bytes per pixel). It returns an opaque ID for
	// the new texture.
	CreateTexture(width, height int, format TextureFormat, pixels []byte) (TextureID, error)

	// DestroyTexture releases the texture behind id. Destroying an unknown
	// or already-destroyed ID is a no-op.
	DestroyTexture(id TextureID)
}
