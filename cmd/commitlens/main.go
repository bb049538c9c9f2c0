package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/commitlens/commitlens-go/internal/config"
	"github.com/commitlens/commitlens-go/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile  string
	verbose  bool
	repoPath string
	logger   *logrus.Logger
	cfg      *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "commitlens",
	Short: "commitlens - mine a contributor's git history for review facts",
	Long: `commitlens mines git history for a single contributor over a date window
and derives structured facts for engineering reviews: pull-request
groupings, size and complexity tiers, inactivity gaps, and bug-pattern
signals.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(logging.Config{Verbose: verbose})

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./commitlens.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "r", ".", "path to the git repository")

	rootCmd.SetVersionTemplate(`commitlens {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(prsCmd)
	rootCmd.AddCommand(gapsCmd)
	rootCmd.AddCommand(bugsCmd)
	rootCmd.AddCommand(runsCmd)
}
