package main

import (
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagOutput    string
	flagFlatten   bool
	flagTemplates string
	flagJobs      int
	flagDebug     bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "tilecut [flags] <files|dirs ...>",
	Short: "Cut bitmask autotile icon sets from reference sheets",
	Long: `tilecut walks its arguments for .yaml/.yml cut configs, finds each
config's sibling source sheet, and produces one multi-state .dmi icon file
per config.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case flagDebug:
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		case flagVerbose:
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(args, writeIconOutputs, cmd.Flags().Changed("templates"))
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagOutput, "output", "o", "", "output directory; default writes next to each input")
	pf.BoolVar(&flagFlatten, "flatten", false, "discard input directory structure in the output")
	pf.StringVarP(&flagTemplates, "templates", "t", "templates", "directory searched for template configs")
	pf.IntVarP(&flagJobs, "jobs", "j", runtime.NumCPU(), "number of parallel workers")
	pf.BoolVar(&flagDebug, "debug", false, "debug logging plus per-corner debug images")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "per-file progress logging")
}
