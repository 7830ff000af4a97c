// Copyright 2026 The gogpu Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package region groups assets into named streaming regions that load and
// unload in bulk.
//
// A region is a list of (path, type) pairs. Activating it issues one
// asynchronous load per asset through the owning loader; deactivating it
// releases every handle the activation produced. Regions add no concurrency
// of their own — completion counting happens inside the loader's callbacks,
// on the goroutine that drives Update.
//
// Regions can be built by hand with Manager.Create and Manager.Add, or read
// from a TOML manifest with Manager.LoadManifest.
package region
