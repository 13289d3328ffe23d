package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/usdzview/internal/model"
	"github.com/philipparndt/usdzview/internal/persist"
	"github.com/philipparndt/usdzview/pkg/analysis"
	"github.com/philipparndt/usdzview/pkg/units"
)

var infoCmd = &cobra.Command{
	Use:   "info [file|url]",
	Short: "Display general information about a model",
	Long:  "Show dimensions, triangle count, surface area and edge statistics of a USDZ or STL model.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	source := args[0]
	out := cmd.OutOrStdout()

	m, err := loadModel(cmd, source)
	if err != nil {
		return err
	}
	result := analysis.Analyze(collectTriangles(m.Group))

	fmt.Fprintln(out, "Model Information")
	fmt.Fprintln(out, "=================")
	fmt.Fprintf(out, "Name: %s\n", m.Name)
	fmt.Fprintf(out, "Source: %s\n", source)
	fmt.Fprintf(out, "Format: %s\n\n", m.Format)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Meshes: %d\n", m.Group.MeshCount())
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Surface Area: %.6f m²\n\n", result.SurfaceArea)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f m\n", result.Dimensions.X)
	fmt.Fprintf(out, "  Height (Y): %.6f m\n", result.Dimensions.Y)
	fmt.Fprintf(out, "  Depth (Z): %.6f m\n", result.Dimensions.Z)
	fmt.Fprintf(out, "  Diagonal: %.6f m\n\n", result.BoundingBox.Diagonal())

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f m\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f m\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f m\n", result.AvgEdgeLength)

	if !model.IsRemote(source) {
		stored := persist.NewFile(model.ExpandPath(source))
		snap, ok, err := stored.Load()
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("ignoring stored measurements")
		case ok:
			fmt.Fprintf(out, "\nStored measurements (%s):\n", stored.Path)
			printSnapshot(out, snap, units.Parse(settings.Unit))
		}
	}
	return nil
}
