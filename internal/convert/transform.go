// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// BitonalPalette is the two-entry palette of 1-bit outputs. Index 0 is
// black, index 1 is white.
var BitonalPalette = color.Palette{color.Black, color.White}

// ToGray converts img to single-channel luminance using the ITU-R 601-2
// weights on straight (non-premultiplied) RGB. Alpha is discarded rather
// than composited, so a fully transparent red pixel still maps to the luma
// of red. A *image.Gray input comes back as an unchanged copy.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(b)

	switch src := img.(type) {
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i, o := src.PixOffset(b.Min.X, y), dst.PixOffset(b.Min.X, y)
			copy(dst.Pix[o:o+b.Dx()], src.Pix[i:i+b.Dx()])
		}
		return dst
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := src.PixOffset(b.Min.X, y)
			o := dst.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.Pix[o] = luma(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
				i += 4
				o++
			}
		}
		return dst
	case *image.NRGBA64:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := src.PixOffset(b.Min.X, y)
			o := dst.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				// High bytes of the big-endian 16-bit samples.
				dst.Pix[o] = luma(src.Pix[i], src.Pix[i+2], src.Pix[i+4])
				i += 8
				o++
			}
		}
		return dst
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		o := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.Pix[o] = luma(c.R, c.G, c.B)
			o++
		}
	}
	return dst
}

// ToBitonal converts img to luminance and then quantizes it to black and
// white with Floyd-Steinberg error diffusion.
func ToBitonal(img image.Image) *image.Paletted {
	gray := ToGray(img)
	b := gray.Bounds()
	dst := image.NewPaletted(b, BitonalPalette)
	draw.FloydSteinberg.Draw(dst, b, gray, b.Min)
	return dst
}

func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}
