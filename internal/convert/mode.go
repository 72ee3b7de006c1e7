// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"image"
	"strings"
)

// Mode selects which files a batch picks up and how their pixels are
// transformed. It is a closed set: ModeGrayscale and ModeBitonal.
type Mode string

const (
	// ModeGrayscale converts PNG files to 8-bit luminance.
	ModeGrayscale Mode = "grayscale"
	// ModeBitonal converts PNG and JPEG files to 1-bit black and white
	// using Floyd-Steinberg dithering.
	ModeBitonal Mode = "bitonal"
)

var (
	grayscaleExts = []string{extPNG}
	bitonalExts   = []string{extPNG, extJPG, extJPEG}
)

// ParseMode returns the Mode named by s.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeGrayscale, ModeBitonal:
		return m, nil
	default:
		return "", fmt.Errorf("unknown conversion mode %q: use grayscale or bitonal", s)
	}
}

// Extensions returns the filename suffixes eligible for conversion in m.
func (m Mode) Extensions() []string {
	switch m {
	case ModeGrayscale:
		return append([]string(nil), grayscaleExts...)
	case ModeBitonal:
		return append([]string(nil), bitonalExts...)
	}
	return nil
}

// Eligible reports whether name ends with one of m's suffixes. Matching is
// case-sensitive: "photo.PNG" is not eligible.
func (m Mode) Eligible(name string) bool {
	for _, ext := range m.Extensions() {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Transform applies m's pixel conversion to img.
func (m Mode) Transform(img image.Image) image.Image {
	if m == ModeBitonal {
		return ToBitonal(img)
	}
	return ToGray(img)
}
