package main

import "github.com/pdiddy/imgbatch/internal/convert"

var grayscaleCmd = newConvertCmd(convert.ModeGrayscale,
	"Convert PNG images to 8-bit grayscale",
	`Grayscale converts every .png file directly inside input_folder to 8-bit
luminance and writes it under the same name into output_folder, which is
created if missing. Other files are ignored. Existing outputs are replaced.`)

func init() {
	rootCmd.AddCommand(grayscaleCmd)
}
