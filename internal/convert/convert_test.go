// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/imgbatch/pkg/types"
)

// gradient returns a w x h NRGBA image with varying color and the given alpha.
func gradient(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 96,
				A: alpha,
			})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeJPEG(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func readImage(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestConvertDir_Grayscale(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "out")
	writePNG(t, in, "a.png", gradient(10, 10, 255))
	writeFile(t, in, "notes.txt", "not an image")

	var log bytes.Buffer
	result, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []string{"a.png"}, dirNames(t, out))

	img := readImage(t, filepath.Join(out, "a.png"))
	gray, ok := img.(*image.Gray)
	require.True(t, ok, "output should decode as single-channel gray, got %T", img)
	assert.Equal(t, image.Pt(10, 10), gray.Bounds().Size())

	assert.Contains(t, log.String(), "converted: a.png (10x10)")
	assert.Contains(t, log.String(), "Batch summary: 1 converted, 0 failed (total: 1)")
}

func TestConvertDir_GrayscaleIgnoresJPEG(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeJPEG(t, in, "b.jpg", gradient(8, 8, 255))

	result, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())
	assert.Empty(t, dirNames(t, out))
}

func TestConvertDir_Bitonal(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeJPEG(t, in, "b.jpg", gradient(8, 8, 255))
	writePNG(t, in, "c.png", gradient(8, 8, 200))
	writeFile(t, in, "d.gif", "GIF89a")

	result, err := ConvertDir(context.Background(), ModeBitonal, in, out, Options{JPEGQuality: 100}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, []string{"b.jpg", "c.png"}, dirNames(t, out))

	pngOut := readImage(t, filepath.Join(out, "c.png"))
	pal, ok := pngOut.(*image.Paletted)
	require.True(t, ok, "png output should be paletted, got %T", pngOut)
	assert.Equal(t, image.Pt(8, 8), pal.Bounds().Size())
	require.Len(t, pal.Palette, 2)
	for _, c := range pal.Palette {
		g := color.GrayModel.Convert(c).(color.Gray)
		assert.True(t, g.Y == 0 || g.Y == 255, "palette entry %v is not pure black or white", c)
	}
	for _, idx := range pal.Pix {
		assert.Less(t, int(idx), 2)
	}

	jpgOut := readImage(t, filepath.Join(out, "b.jpg"))
	jpgGray, ok := jpgOut.(*image.Gray)
	require.True(t, ok, "jpeg output should be single-channel, got %T", jpgOut)
	assert.Equal(t, image.Pt(8, 8), jpgGray.Bounds().Size())
	for i, v := range jpgGray.Pix {
		assert.True(t, v <= 32 || v >= 223, "jpeg sample %d = %d is not near black or white", i, v)
	}
}

func TestConvertDir_EmptyInput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "nested", "out")

	var log bytes.Buffer
	result, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &log)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Empty(t, dirNames(t, out))
}

func TestConvertDir_ExistingOutputDir(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, in, "a.png", gradient(4, 4, 255))
	writeFile(t, out, "a.png", "stale output from an earlier run")

	_, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &bytes.Buffer{})
	require.NoError(t, err)

	_, ok := readImage(t, filepath.Join(out, "a.png")).(*image.Gray)
	assert.True(t, ok, "existing file should be overwritten")
}

func TestConvertDir_SkipsDirectories(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(in, "folder.png"), 0o755))
	writePNG(t, in, "a.png", gradient(2, 2, 255))

	result, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, []string{"a.png"}, dirNames(t, out))
}

func TestConvertDir_Deterministic(t *testing.T) {
	in := t.TempDir()
	writePNG(t, in, "a.png", gradient(12, 7, 255))
	out1, out2 := t.TempDir(), t.TempDir()

	for _, out := range []string{out1, out2} {
		_, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &bytes.Buffer{})
		require.NoError(t, err)
	}

	b1, err := os.ReadFile(filepath.Join(out1, "a.png"))
	require.NoError(t, err)
	b2, err := os.ReadFile(filepath.Join(out2, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestConvertDir_GrayInputUnchanged(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := image.NewGray(image.Rect(0, 0, 9, 9))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 3)
	}
	writePNG(t, in, "g.png", src)

	_, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &bytes.Buffer{})
	require.NoError(t, err)

	got, ok := readImage(t, filepath.Join(out, "g.png")).(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, src.Pix, got.Pix)
}

func TestConvertDir_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) (in, out string)
		wantErr error
	}{
		{
			name: "missing input directory",
			setup: func(t *testing.T) (string, string) {
				return filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir()
			},
			wantErr: ErrIO,
		},
		{
			name: "output path is a file",
			setup: func(t *testing.T) (string, string) {
				parent := t.TempDir()
				writeFile(t, parent, "blocker", "x")
				return t.TempDir(), filepath.Join(parent, "blocker", "out")
			},
			wantErr: ErrIO,
		},
		{
			name: "corrupt png",
			setup: func(t *testing.T) (string, string) {
				in := t.TempDir()
				writeFile(t, in, "broken.png", "this is not a png")
				return in, t.TempDir()
			},
			wantErr: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := tt.setup(t)
			_, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &bytes.Buffer{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConvertDir_FailFast(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, in, "a.png", "corrupt")
	writePNG(t, in, "b.png", gradient(4, 4, 255))

	var log bytes.Buffer
	result, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{}, &log)
	require.ErrorIs(t, err, ErrDecode)

	assert.Equal(t, 0, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.NoFileExists(t, filepath.Join(out, "b.png"))
	assert.Contains(t, log.String(), "failed:")
	assert.NotContains(t, log.String(), "Batch summary:")
}

func TestConvertDir_KeepGoing(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, in, "a.png", "corrupt")
	writePNG(t, in, "b.png", gradient(4, 4, 255))

	var log bytes.Buffer
	result, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{KeepGoing: true}, &log)
	require.ErrorIs(t, err, ErrDecode)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.FileExists(t, filepath.Join(out, "b.png"))
	assert.Contains(t, log.String(), "Batch summary: 1 converted, 1 failed (total: 2)")
}

func TestConvertDir_Cancelled(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, in, "a.png", gradient(4, 4, 255))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ConvertDir(ctx, ModeGrayscale, in, out, Options{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(out, "a.png"))
}

func TestConvertDir_UnknownMode(t *testing.T) {
	_, err := ConvertDir(context.Background(), Mode("sepia"), t.TempDir(), t.TempDir(), Options{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown conversion mode")
}

// memRecorder collects records in memory, optionally failing.
type memRecorder struct {
	records []types.ConversionRecord
	err     error
}

func (m *memRecorder) Record(_ context.Context, rec types.ConversionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func TestConvertDir_Recorder(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, in, "a.png", "corrupt")
	writePNG(t, in, "b.png", gradient(5, 3, 255))

	rec := &memRecorder{}
	opts := Options{KeepGoing: true, Recorder: rec, RunID: "run-1"}
	_, err := ConvertDir(context.Background(), ModeGrayscale, in, out, opts, &bytes.Buffer{})
	require.Error(t, err)

	require.Len(t, rec.records, 2)
	assert.Equal(t, "a.png", rec.records[0].Name)
	assert.Equal(t, types.ConversionFailed, rec.records[0].Status)
	assert.NotEmpty(t, rec.records[0].Error)

	assert.Equal(t, "b.png", rec.records[1].Name)
	assert.Equal(t, types.ConversionDone, rec.records[1].Status)
	assert.Equal(t, 5, rec.records[1].Width)
	assert.Equal(t, 3, rec.records[1].Height)
	assert.Equal(t, "run-1", rec.records[1].RunID)
	assert.Equal(t, "grayscale", rec.records[1].Mode)
}

func TestConvertDir_RecorderGeneratesRunID(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, in, "a.png", gradient(2, 2, 255))
	writePNG(t, in, "b.png", gradient(2, 2, 255))

	rec := &memRecorder{}
	_, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{Recorder: rec}, &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, rec.records, 2)
	assert.NotEmpty(t, rec.records[0].RunID)
	assert.Equal(t, rec.records[0].RunID, rec.records[1].RunID)
}

func TestConvertDir_RecorderFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, in, "a.png", gradient(2, 2, 255))

	rec := &memRecorder{err: errors.New("database is locked")}
	_, err := ConvertDir(context.Background(), ModeGrayscale, in, out, Options{Recorder: rec}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "database is locked")
}

func TestConvertFile_FormatFromName(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	// JPEG content behind a .png name decodes by content and is saved as PNG.
	writeJPEG(t, in, "mislabeled.png", gradient(6, 6, 255))

	res, err := ConvertFile(context.Background(), ModeBitonal,
		filepath.Join(in, "mislabeled.png"), filepath.Join(out, "mislabeled.png"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Width)

	f, err := os.Open(filepath.Join(out, "mislabeled.png"))
	require.NoError(t, err)
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestConvertFile_UnknownOutputExtension(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writePNG(t, in, "a.png", gradient(2, 2, 255))

	_, err := ConvertFile(context.Background(), ModeGrayscale,
		filepath.Join(in, "a.png"), filepath.Join(out, "a.bmp"), Options{})
	assert.ErrorIs(t, err, ErrEncode)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(types.ConversionConfig{KeepGoing: true, JPEGQuality: 90, Ledger: "x.db"})
	assert.True(t, opts.KeepGoing)
	assert.Equal(t, 90, opts.JPEGQuality)
	assert.Nil(t, opts.Recorder)
}
