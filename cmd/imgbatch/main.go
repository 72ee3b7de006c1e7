// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the imgbatch CLI, which converts the
// images in a folder to grayscale or to dithered black and white.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the imgbatch CLI.
var rootCmd = &cobra.Command{
	Use:   "imgbatch",
	Short: "Batch-convert folders of images to grayscale or 1-bit black and white",
	Long: `imgbatch converts every eligible image directly inside an input folder and
writes the result under the same file name into an output folder.

  grayscale  PNG files to 8-bit luminance
  bitonal    PNG and JPEG files to 1-bit black and white (Floyd-Steinberg)

The first file that fails to convert stops the batch unless --keep-going is
set. Pass --ledger to keep a SQLite history of converted files.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./imgbatch.yaml or ~/.config/imgbatch/imgbatch.yaml)")
	rootCmd.PersistentFlags().String("ledger", "", "SQLite ledger file recording converted files (empty disables)")
	_ = viper.BindPFlag("ledger", rootCmd.PersistentFlags().Lookup("ledger"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("imgbatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "imgbatch"))
		}
	}

	viper.SetEnvPrefix("IMGBATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
