// Package cmd provides the CLI commands for infra-review.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"infra-review/internal/config"
	"infra-review/internal/logging"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "infra-review",
	Short: "Review Terraform modules, workflows and repositories",
	Long: `infra-review is a rule-based reviewer for infrastructure code.

It analyzes Terraform modules across files (symbols, references, module
sources, security, cost), reviews single files and GitHub Actions
workflows, and tracks the skills the reviews exercise.

Examples:
  infra-review analyze ./infrastructure
  infra-review review main.tf
  infra-review workflow .github/workflows/ci.yml
  infra-review skills recommend`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.infra-review/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("infra-review version %s\n", version)
	},
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(config.Get())
	},
}
