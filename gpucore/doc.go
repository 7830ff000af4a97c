// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpucore defines the texture backend interface the asset pipeline
// finalizes textures against.
//
// The pipeline never talks to a GPU device directly. Background workers
// decode image files into RGBA pixel buffers on any goroutine; the finalize
// phase, which runs only on the goroutine that owns the GPU context, hands
// those buffers to a [TextureBackend]. Adapters for concrete GPU stacks
// live under backend/.
//
// # Resource Management
//
// GPU resources are referred to via opaque IDs ([TextureID]). Adapters are
// responsible for tracking the mapping between IDs and actual GPU textures.
package gpucore
