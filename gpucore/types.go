// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

// TextureID is an opaque handle to a GPU texture. Each backend
// implementation maintains the mapping between IDs and actual GPU
// resources. IDs are uint64 to accommodate various backend handle sizes.
type TextureID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// TextureFormat specifies the format of texture pixel data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	// This is the format the asset pipeline decodes all images into.
	TextureFormatRGBA8Unorm TextureFormat = iota + 1

	// TextureFormatRGBA8UnormSRGB is 8-bit RGBA, normalized unsigned integer
	// in sRGB color space.
	TextureFormatRGBA8UnormSRGB
)

// BytesPerPixel returns the pixel stride of the format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA8Unorm, TextureFormatRGBA8UnormSRGB:
		return 4
	default:
		return 0
	}
}
