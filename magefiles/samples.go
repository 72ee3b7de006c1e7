//go:build mage

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Samples writes a few generated PNG and JPEG images into samples/input.
func Samples() error {
	mg.Deps(Init)

	dir := sampleDirs[0]
	samples := []struct {
		name string
		img  image.Image
	}{
		{"gradient.png", gradient(256, 64, 255)},
		{"translucent.png", gradient(64, 64, 128)},
		{"photo.jpg", gradient(128, 128, 255)},
		{"ignored.txt", nil},
	}
	for _, s := range samples {
		path := filepath.Join(dir, s.name)
		if err := writeSample(path, s.img); err != nil {
			return err
		}
		fmt.Println("  ", path)
	}
	return nil
}

func gradient(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) % 256),
				A: alpha,
			})
		}
	}
	return img
}

func writeSample(path string, img image.Image) error {
	if img == nil {
		return os.WriteFile(path, []byte("not an image\n"), 0o644)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".jpg":
		err = jpeg.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
