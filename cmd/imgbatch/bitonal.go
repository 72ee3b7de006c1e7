package main

import "github.com/pdiddy/imgbatch/internal/convert"

var bitonalCmd = newConvertCmd(convert.ModeBitonal,
	"Convert PNG and JPEG images to 1-bit black and white",
	`Bitonal converts every .png, .jpg, and .jpeg file directly inside
input_folder to black and white using Floyd-Steinberg dithering and writes
it under the same name into output_folder. PNG outputs are 1-bit paletted;
JPEG outputs hold the same black and white raster as 8-bit gray, since JPEG
has no 1-bit mode.`)

func init() {
	rootCmd.AddCommand(bitonalCmd)
}
