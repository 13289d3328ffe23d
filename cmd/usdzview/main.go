package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/philipparndt/usdzview/internal/app"
	"github.com/philipparndt/usdzview/internal/config"
	"github.com/philipparndt/usdzview/internal/logging"
	"github.com/philipparndt/usdzview/internal/model"
	"github.com/philipparndt/usdzview/version"
)

var (
	configFile string
	settings   config.Settings
	log        = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "usdzview",
	Short: "View USDZ and STL models and measure them",
	Long: `usdzview opens USDZ and STL models, lets you place point-to-point
measurements on the surface and keeps them in a shareable viewer link.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: usdzview.{json,yaml} in the user config dir, ~/.usdzview or .)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("log-level"))
}

func loadSettings(cmd *cobra.Command, args []string) error {
	path, err := homedir.Expand(configFile)
	if err != nil {
		return fmt.Errorf("invalid config path: %w", err)
	}
	if err := config.Load(path); err != nil {
		return err
	}
	s, err := config.Current()
	if err != nil {
		return err
	}
	settings = s
	log = logging.Setup(s.LogLevel)
	if f := config.ConfigFile(); f != "" {
		log.Debug().Str("file", f).Msg("configuration loaded")
	}
	return nil
}

func loadModel(cmd *cobra.Command, source string) (*model.Model, error) {
	loader, err := app.NewLoader(settings.USDZ, log)
	if err != nil {
		return nil, err
	}
	return loader.Load(cmd.Context(), source)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
