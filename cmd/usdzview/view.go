package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/philipparndt/usdzview/internal/gui"
)

var viewCmd = &cobra.Command{
	Use:   "view [file|url]",
	Short: "Open a model in the viewer window",
	Long: `Open a USDZ or STL model, from disk or an http(s) URL, in the viewer.
Click the model twice to measure, drag markers to adjust them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().String("unit", "", "display unit: m, cm, inch, foot")
	viewCmd.Flags().String("persistence", "", "where measurements are kept: fragment, file, sqlite, none")
	viewCmd.Flags().Bool("watch", true, "reload the model when the file changes")
	_ = viper.BindPFlag("unit", viewCmd.Flags().Lookup("unit"))
	_ = viper.BindPFlag("persistence.backend", viewCmd.Flags().Lookup("persistence"))
	_ = viper.BindPFlag("watch", viewCmd.Flags().Lookup("watch"))
}

func runView(cmd *cobra.Command, args []string) error {
	source := ""
	if len(args) == 1 {
		source = args[0]
	}
	return gui.Run(settings, source, log)
}
