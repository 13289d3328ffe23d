package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/philipparndt/usdzview/internal/model"
	"github.com/philipparndt/usdzview/internal/persist"
	"github.com/philipparndt/usdzview/pkg/units"
)

var libraryCmd = &cobra.Command{
	Use:   "library [file|url]",
	Short: "List measurements kept in the SQLite library",
	Long: `Without arguments, list every model that has measurements in the library
database. With a model, print its measurements.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLibrary,
}

func init() {
	libraryCmd.Flags().String("database", "", "library database (default: persistence.database)")
	libraryCmd.Flags().StringP("unit", "u", "", "display unit (default: configured unit)")
	rootCmd.AddCommand(libraryCmd)
}

func runLibrary(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := settings.Persistence.Database
	if cmd.Flags().Changed("database") {
		path, _ = cmd.Flags().GetString("database")
	}
	db, err := persist.OpenLibrary(path)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		entries, err := persist.Entries(db)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "Library is empty")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%-3d %s  %s\n", e.Pairs, e.UpdatedAt.Local().Format("2006-01-02 15:04"), e.Source)
		}
		return nil
	}

	source := model.ExpandPath(args[0])
	if !model.IsRemote(source) {
		if abs, err := filepath.Abs(source); err == nil {
			source = abs
		}
	}
	snap, _, err := persist.NewLibrary(db, source).Load()
	if err != nil {
		return err
	}

	unit := settings.Unit
	if u, _ := cmd.Flags().GetString("unit"); u != "" {
		unit = u
	}
	printSnapshot(out, snap, units.Parse(unit))
	return nil
}
