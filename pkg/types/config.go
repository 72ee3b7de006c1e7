// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultJPEGQuality matches the quality the JPEG encoder uses when none is given.
const DefaultJPEGQuality = 75

// ConversionConfig holds settings for the grayscale and bitonal commands.
type ConversionConfig struct {
	// KeepGoing continues the batch past per-file failures instead of
	// aborting on the first one.
	KeepGoing bool `json:"keep_going" yaml:"keep_going" mapstructure:"keep_going"`

	// JPEGQuality is the encoder quality (1-100) for .jpg/.jpeg outputs.
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality" mapstructure:"jpeg_quality"`

	// Ledger is the path of the SQLite conversion ledger. Empty disables it.
	Ledger string `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}

// LedgerConfig holds settings for the conversion ledger.
type LedgerConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default number of records returned by a listing (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
