package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/usdzview/pkg/usdz"
)

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Check the USDZ signature of files",
	Long:  "Verify that each file starts with the zip local file header a USDZ package must have.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, filename := range args {
		if err := usdz.CheckFile(filename); err != nil {
			fmt.Fprintf(out, "FAIL  %s: %v\n", filename, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "OK    %s\n", filename)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed the signature check", failed, len(args))
	}
	return nil
}
