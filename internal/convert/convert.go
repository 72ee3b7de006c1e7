// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert batch-converts the images in a folder to 8-bit grayscale
// or to 1-bit dithered black and white, writing each result under the same
// file name into an output folder.
package convert

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/imgbatch/pkg/types"
)

// Recorder receives the outcome of every file a batch touches. The ledger
// package provides the SQLite implementation.
type Recorder interface {
	Record(ctx context.Context, rec types.ConversionRecord) error
}

// Options tunes a conversion run. The zero value converts fail-fast with
// the default JPEG quality and records nothing.
type Options struct {
	// KeepGoing continues past per-file failures; the returned error joins
	// all of them.
	KeepGoing bool

	// JPEGQuality applies to .jpg and .jpeg outputs. Zero uses the default.
	JPEGQuality int

	// Recorder, when non-nil, is told about each converted or failed file.
	Recorder Recorder

	// RunID tags recorded entries. Empty generates a fresh one per batch.
	RunID string
}

// OptionsFromConfig builds Options from the CLI configuration.
func OptionsFromConfig(cfg types.ConversionConfig) Options {
	return Options{
		KeepGoing:   cfg.KeepGoing,
		JPEGQuality: cfg.JPEGQuality,
	}
}

// FileResult describes one converted file.
type FileResult struct {
	Name   string
	Width  int
	Height int
	Err    error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
	Files     []FileResult
}

// Total returns the number of eligible files the batch attempted.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertFile decodes srcPath, applies mode's transform, and writes the
// result to dstPath, replacing any existing file. The output format follows
// dstPath's extension. A failure after dstPath is created leaves the
// partial file in place.
func ConvertFile(ctx context.Context, mode Mode, srcPath, dstPath string, opts Options) (FileResult, error) {
	res := FileResult{Name: filepath.Base(dstPath)}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return res, fmt.Errorf("%w: opening %s: %w", ErrIO, srcPath, err)
	}
	defer in.Close()

	src, err := decode(in, srcPath)
	if err != nil {
		return res, err
	}

	dst := mode.Transform(src)
	size := dst.Bounds().Size()
	res.Width, res.Height = size.X, size.Y

	out, err := os.Create(dstPath)
	if err != nil {
		return res, fmt.Errorf("%w: creating %s: %w", ErrIO, dstPath, err)
	}
	if err := encode(out, dst, dstPath, opts.JPEGQuality); err != nil {
		out.Close()
		return res, err
	}
	if err := out.Close(); err != nil {
		return res, fmt.Errorf("%w: writing %s: %w", ErrIO, dstPath, err)
	}
	return res, nil
}

// ConvertDir converts every eligible file directly inside inputDir into
// outputDir, creating outputDir if needed. Files are visited in name order
// and written under their original names. Per-file status lines and a
// summary are written to w.
//
// Unless opts.KeepGoing is set, the first failing file aborts the batch and
// its error is returned; files after it are left untouched.
func ConvertDir(ctx context.Context, mode Mode, inputDir, outputDir string, opts Options, w io.Writer) (BatchResult, error) {
	var result BatchResult

	if _, err := ParseMode(string(mode)); err != nil {
		return result, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("%w: creating output directory %s: %w", ErrIO, outputDir, err)
	}
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return result, fmt.Errorf("%w: reading input directory %s: %w", ErrIO, inputDir, err)
	}

	if opts.Recorder != nil && opts.RunID == "" {
		opts.RunID = newRunID()
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !mode.Eligible(entry.Name()) {
			continue
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		name := entry.Name()
		fr, err := ConvertFile(ctx, mode, filepath.Join(inputDir, name), filepath.Join(outputDir, name), opts)
		fr.Err = err
		result.Files = append(result.Files, fr)

		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:    %s (%v)\n", name, err)
		} else {
			result.Converted++
			fmt.Fprintf(w, "converted: %s (%dx%d)\n", name, fr.Width, fr.Height)
		}

		if opts.Recorder != nil {
			if rerr := opts.Recorder.Record(ctx, record(mode, inputDir, outputDir, opts.RunID, fr)); rerr != nil {
				return result, fmt.Errorf("recording %s: %w", name, rerr)
			}
		}

		if err != nil {
			if !opts.KeepGoing {
				return result, err
			}
			errs = append(errs, err)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result, errors.Join(errs...)
}

func record(mode Mode, inputDir, outputDir, runID string, fr FileResult) types.ConversionRecord {
	rec := types.ConversionRecord{
		RunID:       runID,
		Name:        fr.Name,
		Mode:        string(mode),
		InputDir:    inputDir,
		OutputDir:   outputDir,
		Width:       fr.Width,
		Height:      fr.Height,
		Status:      types.ConversionDone,
		ConvertedAt: time.Now().UTC(),
	}
	if fr.Err != nil {
		rec.Status = types.ConversionFailed
		rec.Error = fr.Err.Error()
	}
	return rec
}

// newRunID returns a short random identifier for grouping ledger entries.
func newRunID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UTC().Format("20060102T150405")
	}
	return hex.EncodeToString(b[:])
}
