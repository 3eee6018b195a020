package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tilecut/internal/cutter"
	"tilecut/internal/dmi"
	"tilecut/internal/preview"
)

var (
	flagPreviewScale  int
	flagPreviewColors int
	flagPreviewDelay  int
	flagPreviewGutter int
)

var previewCmd = &cobra.Command{
	Use:   "preview [flags] <files|dirs ...>",
	Short: "Render animated GIF montages instead of icon files",
	Long: `preview runs the same cutting pipeline as the root command but
writes a GIF montage of every generated state, for eyeballing a tile set
without loading it into the engine.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(args, writeGIFOutputs, cmd.Flags().Changed("templates"))
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	f := previewCmd.Flags()
	f.IntVar(&flagPreviewScale, "scale", 2, "integer upscale factor per tile")
	f.IntVar(&flagPreviewColors, "colors", 64, "max palette size (<=256)")
	f.IntVar(&flagPreviewDelay, "delay", 200, "frame delay in ms for unanimated icons")
	f.IntVar(&flagPreviewGutter, "gutter", 1, "pixel gap between tiles before scaling")
}

func writeGIFOutputs(configPath string, cfg *cutter.Config, icon *dmi.Icon, _ []cutter.NamedImage) ([]string, error) {
	base := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
	dir := filepath.Dir(configPath)

	out := destPath(filepath.Join(dir, cfg.FilePrefix+base+"-preview.gif"))
	err := writeFileAt(out, func(f *os.File) error {
		return preview.Encode(f, icon, preview.Options{
			Scale:   flagPreviewScale,
			Colors:  flagPreviewColors,
			DelayMS: flagPreviewDelay,
			Gutter:  flagPreviewGutter,
		})
	})
	if err != nil {
		return nil, err
	}
	return []string{out}, nil
}
