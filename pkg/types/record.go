// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus is the outcome of converting one file.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// ConversionRecord describes one file handled by a batch run.
type ConversionRecord struct {
	// RunID groups the records of a single batch run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Name is the file name, identical in the input and output folders.
	Name string `json:"name" yaml:"name"`

	// Mode is the conversion mode ("grayscale" or "bitonal").
	Mode string `json:"mode" yaml:"mode"`

	InputDir  string `json:"input_dir" yaml:"input_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Width and Height are zero when the file could not be decoded.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Error holds the failure message for failed records.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
