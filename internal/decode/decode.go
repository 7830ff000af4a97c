// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package decode holds the blocking I/O half of the asset pipeline: the
// functions background workers call to turn a path into raw bytes or raw
// RGBA pixels. Nothing in this package touches GPU or audio state, so every
// function is safe to call from any goroutine.
package decode

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	// Register the decoders for the formats game assets actually ship in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyData is returned when a file decodes to zero bytes.
var ErrEmptyData = errors.New("decode: empty data")

// Pixels is a decoded image: tightly packed RGBA, 4 bytes per pixel.
type Pixels struct {
	Data   []byte
	Width  int
	Height int
}

// open opens path from fsys, or from the OS filesystem when fsys is nil.
func open(fsys fs.FS, path string) (io.ReadCloser, error) {
	if fsys != nil {
		return fsys.Open(path)
	}
	return os.Open(filepath.Clean(path))
}

// Image opens and decodes an image file into tightly packed RGBA pixels,
// auto-detecting the format from its content. Supported formats: PNG, JPEG,
// GIF, BMP, TIFF, WebP.
func Image(fsys fs.FS, path string) (Pixels, error) {
	f, err := open(fsys, path)
	if err != nil {
		return Pixels{}, fmt.Errorf("decode: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return Pixels{}, fmt.Errorf("decode: %s: %w", path, err)
	}
	return fromStdImage(img), nil
}

// fromStdImage converts any image.Image into tightly packed RGBA.
func fromStdImage(img image.Image) Pixels {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := Pixels{
		Data:   make([]byte, width*height*4),
		Width:  width,
		Height: height,
	}

	// Fast path for NRGBA (what png/jpeg decoders usually produce).
	if nrgba, ok := img.(*image.NRGBA); ok {
		copyRows(out.Data, nrgba.Pix, width, height, nrgba.Stride)
		return out
	}
	if rgba, ok := img.(*image.RGBA); ok {
		copyRows(out.Data, rgba.Pix, width, height, rgba.Stride)
		return out
	}

	// Generic slow path for any image type.
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out.Data[i+0] = byte(r >> 8)
			out.Data[i+1] = byte(g >> 8)
			out.Data[i+2] = byte(b >> 8)
			out.Data[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return out
}

// copyRows copies width*4 bytes per row from a possibly padded source.
func copyRows(dst, src []byte, width, height, srcStride int) {
	rowLen := width * 4
	if srcStride == rowLen {
		copy(dst, src)
		return
	}
	for y := 0; y < height; y++ {
		copy(dst[y*rowLen:(y+1)*rowLen], src[y*srcStride:y*srcStride+rowLen])
	}
}

// File reads the whole of path into memory.
func File(fsys fs.FS, path string) ([]byte, error) {
	f, err := open(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("decode: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return data, nil
}
