package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/detsim/internal/detsim"
)

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert an irradiance image between PNG and RAW",
		Long: `Convert a normalized irradiance image between 16-bit grayscale PNG and
the float64 RAW format read by expose. The format follows the file extension.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			var (
				img *detsim.Image
				err error
			)
			if isPNG(in) {
				img, err = detsim.LoadPNG(in)
			} else {
				img, err = detsim.LoadRaw(in)
			}
			if err != nil {
				return err
			}
			if isPNG(out) {
				err = img.SavePNG(out)
			} else {
				err = img.SaveRaw(out)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Converted %s -> %s (%dx%d)\n", in, out, img.Rows, img.Cols)
			return nil
		},
	}
}

func isPNG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}
