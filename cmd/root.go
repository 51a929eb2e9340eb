package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matheuskafuri/newsticker/internal/httpclient"
	"github.com/matheuskafuri/newsticker/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagService string
	flagDebug   bool
	flagCheck   bool
)

var rootCmd = &cobra.Command{
	Use:   "newsticker",
	Short: "Scrolling headline ticker for the terminal",
	Long: `newsticker scrolls headlines for one service at a time (sports, local, news,
weather, tweets, entertainment). Headlines come from the configured endpoint,
then from static fallback files, then from the local cache.`,
	SilenceUsage: true,
	RunE:         runTicker,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write debug records to the log file")
	rootCmd.Flags().StringVar(&flagService, "service", "", "service to show first (overrides default_service)")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsticker %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return
		}
		checker := update.Checker{Client: httpclient.New(httpclient.DefaultConfig())}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if res := checker.Check(ctx, version); res != nil {
			fmt.Printf("A newer release is available: %s (you have %s)\n", res.LatestVersion, res.CurrentVersion)
		} else {
			fmt.Println("No newer release found.")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
