package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/usdzview/internal/measurement"
	"github.com/philipparndt/usdzview/internal/persist"
	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/pkg/analysis"
	"github.com/philipparndt/usdzview/pkg/geometry"
	"github.com/philipparndt/usdzview/pkg/units"
)

var (
	point1X, point1Y, point1Z float64
	point2X, point2Y, point2Z float64
	measureUnit               string
	measureSnap               bool
	measureShare              bool
)

var measureCmd = &cobra.Command{
	Use:   "measure [file|url]",
	Short: "Measure the distance between two points",
	Long: `Measure the straight-line distance between two points given in meters.
With a model, --snap moves both points to the nearest model vertex first.
--share prints a viewer link that opens the model with this measurement.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().Float64Var(&point1X, "x1", 0.0, "X coordinate of first point")
	measureCmd.Flags().Float64Var(&point1Y, "y1", 0.0, "Y coordinate of first point")
	measureCmd.Flags().Float64Var(&point1Z, "z1", 0.0, "Z coordinate of first point")
	measureCmd.Flags().Float64Var(&point2X, "x2", 0.0, "X coordinate of second point")
	measureCmd.Flags().Float64Var(&point2Y, "y2", 0.0, "Y coordinate of second point")
	measureCmd.Flags().Float64Var(&point2Z, "z2", 0.0, "Z coordinate of second point")
	measureCmd.Flags().StringVarP(&measureUnit, "unit", "u", "cm", "display unit: m, cm, inch, foot")
	measureCmd.Flags().BoolVar(&measureSnap, "snap", false, "snap both points to the nearest model vertex")
	measureCmd.Flags().BoolVar(&measureShare, "share", false, "print a viewer link holding the measurement")

	measureCmd.MarkFlagsRequiredTogether("x1", "y1", "z1", "x2", "y2", "z2")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	unit := units.Parse(measureUnit)

	p1 := geometry.NewVector3(point1X, point1Y, point1Z)
	p2 := geometry.NewVector3(point2X, point2Y, point2Z)

	source := ""
	if len(args) == 1 {
		source = args[0]
	}
	if measureSnap {
		if source == "" {
			return fmt.Errorf("--snap needs a model")
		}
		m, err := loadModel(cmd, source)
		if err != nil {
			return err
		}
		triangles := collectTriangles(m.Group)
		if v, d, ok := analysis.NearestVertex(triangles, p1); ok {
			fmt.Fprintf(out, "Point 1 snapped to %s (moved %s)\n", analysis.FormatVector(v), units.FormatWithLabel(d, unit))
			p1 = v
		}
		if v, d, ok := analysis.NearestVertex(triangles, p2); ok {
			fmt.Fprintf(out, "Point 2 snapped to %s (moved %s)\n", analysis.FormatVector(v), units.FormatWithLabel(d, unit))
			p2 = v
		}
	}

	distance := p1.Distance(p2)
	fmt.Fprintf(out, "Point 1: %s\n", analysis.FormatVector(p1))
	fmt.Fprintf(out, "Point 2: %s\n", analysis.FormatVector(p2))
	fmt.Fprintf(out, "Distance: %s\n", units.FormatWithLabel(distance, unit))

	if !measureShare {
		return nil
	}
	link, err := persist.NewFragment(persist.ViewerLink(source))
	if err != nil {
		return err
	}
	err = link.Save(persist.Snapshot{{
		Sphere1:  p1.Array(),
		Sphere2:  p2.Array(),
		Color:    string(measurement.RandomColor()),
		Distance: measurement.RoundDistance(distance),
	}})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Link: %s\n", link)
	return nil
}

func collectTriangles(g *scene.Group) []geometry.Triangle {
	var triangles []geometry.Triangle
	g.Walk(func(m *scene.Mesh) {
		triangles = append(triangles, m.Triangles...)
	})
	return triangles
}
