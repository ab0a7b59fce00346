// Package cli implements the fraglint command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/fragment-lint/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fraglint",
	Short: "fraglint - lint Android Fragment sources",
	Long: `fraglint checks Android Java sources for Fragment lifecycle mistakes:

  AccessDestroyedView      view binding accessed in a lifecycle callback
                           where the Fragment view does not exist
  NullSafeMutableLiveData  null passed to a LiveData whose type argument
                           is not nullable

Configuration is read from .fraglint/config.yml in the project root.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .fraglint/config.yml in the project root)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// setupLogging installs the default slog logger on stderr.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads --config when given, otherwise the project's config.
func loadConfig(rootDir string) (*config.Config, error) {
	var loader config.Loader
	if path := viper.GetString("config"); path != "" {
		loader = config.NewFileLoader(path)
	} else {
		loader = config.NewLoader(rootDir)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
