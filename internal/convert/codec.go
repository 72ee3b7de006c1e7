// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"

	"github.com/pdiddy/imgbatch/pkg/types"
)

const (
	extPNG  = ".png"
	extJPG  = ".jpg"
	extJPEG = ".jpeg"
)

var (
	// ErrIO marks failures to list the input folder, create the output
	// folder, or open and write files.
	ErrIO = errors.New("i/o error")
	// ErrDecode marks an eligible file whose content is not a valid image.
	ErrDecode = errors.New("decode error")
	// ErrEncode marks a failure of the image encoder or an output name with
	// no known encoder.
	ErrEncode = errors.New("encode error")
)

// decode reads an image from r. The container format is sniffed from the
// content, so a JPEG saved with a .png name still decodes.
func decode(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrDecode, name, err)
	}
	return img, nil
}

// encode writes img to w in the format implied by name's extension.
func encode(w io.Writer, img image.Image, name string, quality int) error {
	var err error
	switch filepath.Ext(name) {
	case extPNG:
		err = png.Encode(w, img)
	case extJPG, extJPEG:
		if quality <= 0 {
			quality = types.DefaultJPEGQuality
		}
		// JPEG has no 1-bit mode; bilevel rasters are stored as 8-bit gray.
		if p, ok := img.(*image.Paletted); ok {
			img = ToGray(p)
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("%w: no encoder for %s", ErrEncode, name)
	}
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %w", ErrEncode, name, err)
	}
	return nil
}
