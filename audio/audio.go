// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package audio defines the audio backend interface the asset pipeline
// finalizes sounds and music against.
//
// Like GPU textures, audio buffers belong to a context that lives on the
// goroutine driving the frame loop. Background workers only read raw file
// bytes; the finalize phase hands those bytes to an [Backend] on the owner
// goroutine.
package audio

// SoundID is an opaque handle to a fully decoded sound effect.
type SoundID uint64

// MusicID is an opaque handle to a streamed music track.
type MusicID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// Backend creates and destroys audio resources on behalf of the asset
// pipeline's finalize phase.
//
// Implementations are only ever called from the goroutine that owns the
// audio context; they do not need to be safe for concurrent use.
type Backend interface {
	// CreateSound decodes raw file bytes into a playable sound effect.
	CreateSound(data []byte) (SoundID, error)

	// CreateMusic prepares raw file bytes as a streamed music track.
	CreateMusic(data []byte) (MusicID, error)

	// DestroySound releases a sound effect. Unknown IDs are a no-op.
	DestroySound(id SoundID)

	// DestroyMusic releases a music track. Unknown IDs are a no-op.
	DestroyMusic(id MusicID)
}
