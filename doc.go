// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package assets provides an asynchronous asset loading pipeline on top of
// a generation-counted registry.
//
// # Two-phase loading
//
// Every load runs in two phases. Background workers perform the blocking
// I/O — opening files and decoding images — on their own goroutines.
// Finalization — creating GPU textures, audio buffers, parsed fonts — and
// registry insertion happen only inside [Loader.Update], on the caller's
// goroutine, because those resources belong to contexts owned by the thread
// driving the frame loop. Workers never touch the registry or a backend.
//
// # Usage
//
//	reg := registry.New()
//	defer reg.Close()
//
//	loader := assets.New(reg, assets.WithTextureBackend(tb))
//	defer loader.Close()
//
//	loader.LoadTexture("textures/hero.png", func(res assets.Result) {
//	    if !res.OK() {
//	        // res.Err, or res.Cancelled
//	        return
//	    }
//	    hero = res.Handle
//	})
//
//	for running {
//	    loader.Update() // finalize + dispatch callbacks, once per frame
//	}
//
// Completion callbacks fire exactly once per accepted request, in
// completion order, only from inside Update. Completion order across
// requests is not submission order: workers race.
//
// # Handles
//
// Finished assets are registered in a [registry.Registry] and referred to
// by [registry.Handle] values, which detect slot reuse via a generation
// counter. See the registry package.
package assets
