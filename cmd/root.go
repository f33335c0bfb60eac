package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iadityasingh7/news/internal/config"
	"github.com/iadityasingh7/news/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagCategory string
)

var rootCmd = &cobra.Command{
	Use:   "news",
	Short: "Terminal news reader",
	Long:  "news shows the latest, market and crypto headlines with infinite scroll and keeps the articles you like.",
	Args:  cobra.NoArgs,
	RunE:  runTUI,

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagCategory, "category", "", "category to open (latest, market, crypto, likes)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(likesCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "news %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// setup loads .env and the config file and starts file logging.
func setup() (*config.Config, error) {
	config.LoadEnv()
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := logging.Init(config.LogDir(), cfg.Level(), version); err != nil {
		// Logging is best effort; the reader works without it.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return cfg, nil
}

func Execute() {
	err := rootCmd.Execute()
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
