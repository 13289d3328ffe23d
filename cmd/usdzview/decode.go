package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/usdzview/internal/persist"
	"github.com/philipparndt/usdzview/pkg/analysis"
	"github.com/philipparndt/usdzview/pkg/geometry"
	"github.com/philipparndt/usdzview/pkg/units"
)

var decodeUnit string

var decodeCmd = &cobra.Command{
	Use:   "decode [link|data]",
	Short: "Print the measurements stored in a viewer link",
	Long: `Decode the measurements of a viewer link, or of the bare data
parameter, and print them as a table.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decodeUnit, "unit", "u", "cm", "display unit: m, cm, inch, foot")
}

func runDecode(cmd *cobra.Command, args []string) error {
	snap, err := decodeArg(args[0])
	if err != nil {
		return err
	}
	printSnapshot(cmd.OutOrStdout(), snap, units.Parse(decodeUnit))
	return nil
}

// decodeArg accepts a full link or the encoded data alone
func decodeArg(arg string) (persist.Snapshot, error) {
	if !strings.Contains(arg, "://") && !strings.Contains(arg, "#") {
		return persist.Decode(arg)
	}
	link, err := persist.NewFragment(arg)
	if err != nil {
		return nil, err
	}
	snap, ok, err := link.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("link has no %s parameter", persist.FragmentKey)
	}
	return snap, nil
}

func printSnapshot(out io.Writer, snap persist.Snapshot, unit units.Unit) {
	if len(snap) == 0 {
		fmt.Fprintln(out, "No measurements")
		return
	}

	// Distance is measured from the points, Stored is what the link carries
	fmt.Fprintf(out, "%-3s %-8s %12s %12s  %s\n", "#", "Color", "Distance", "Stored", "Points")
	for i, rec := range snap {
		a, b := geometry.FromArray(rec.Sphere1), geometry.FromArray(rec.Sphere2)
		fmt.Fprintf(out, "%-3d %-8s %12s %12s  %s -> %s\n",
			i+1,
			rec.Color,
			units.FormatWithLabel(a.Distance(b), unit),
			units.FormatWithLabel(rec.Distance, unit),
			analysis.FormatVector(a),
			analysis.FormatVector(b),
		)
	}
}
