// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/imgbatch/internal/convert"
	"github.com/pdiddy/imgbatch/internal/ledger"
	"github.com/pdiddy/imgbatch/pkg/types"
)

// newConvertCmd builds the command for one conversion mode. Both modes
// share the same shape: two positional folders and the same flags.
func newConvertCmd(mode convert.Mode, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(mode) + " <input_folder> <output_folder>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, mode, args[0], args[1])
		},
	}
	cmd.Flags().Bool("keep-going", false, "continue past files that fail to convert")
	if mode == convert.ModeBitonal {
		cmd.Flags().Int("jpeg-quality", types.DefaultJPEGQuality, "JPEG encoder quality (1-100) for .jpg/.jpeg outputs")
	}
	return cmd
}

func runConvert(cmd *cobra.Command, mode convert.Mode, inputDir, outputDir string) error {
	cfg := conversionConfig(cmd)
	opts := convert.OptionsFromConfig(cfg)

	if cfg.Ledger != "" {
		l, err := ledger.Open(types.LedgerConfig{Path: cfg.Ledger})
		if err != nil {
			return err
		}
		defer l.Close()
		opts.Recorder = l
	}

	result, err := convert.ConvertDir(cmd.Context(), mode, inputDir, outputDir, opts, cmd.OutOrStdout())
	if err != nil {
		if result.Failed > 1 {
			return fmt.Errorf("%d file(s) failed conversion: %w", result.Failed, err)
		}
		return err
	}
	return nil
}

// conversionConfig merges flags, environment, and config file. Flags set on
// the command line win over the other sources.
func conversionConfig(cmd *cobra.Command) types.ConversionConfig {
	v := viper.GetViper()
	_ = v.BindPFlag("keep_going", cmd.Flags().Lookup("keep-going"))
	if f := cmd.Flags().Lookup("jpeg-quality"); f != nil {
		_ = v.BindPFlag("jpeg_quality", f)
	}

	return types.ConversionConfig{
		KeepGoing:   v.GetBool("keep_going"),
		JPEGQuality: v.GetInt("jpeg_quality"),
		Ledger:      v.GetString("ledger"),
	}
}
