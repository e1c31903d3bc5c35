// Package cmd - enhance command
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"infra-review/core/enhance"
)

var (
	enhanceMode    string
	enhanceCloud   string
	enhanceFocus   string
	enhanceProfile string
	enhanceFormat  string
)

// enhanceCmd represents the enhance command
var enhanceCmd = &cobra.Command{
	Use:   "enhance <prompt>",
	Short: "Enhance an infrastructure prompt",
	Long: `Rewrite a rough infrastructure prompt into a structured one.

Domains are detected from keywords, missing considerations (security,
cost, rollback and so on) are injected, and the result is structured
for the chosen interaction mode and the tracked skill level.

Examples:
  infra-review enhance "set up a deployment pipeline"
  infra-review enhance --mode review --focus security "terraform module for S3"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnhance,
}

func init() {
	rootCmd.AddCommand(enhanceCmd)

	enhanceCmd.Flags().StringVarP(&enhanceMode, "mode", "m", "mentor", "interaction mode (mentor, review, debug, interview)")
	enhanceCmd.Flags().StringVar(&enhanceCloud, "cloud", "", "cloud provider context (aws, gcp, azure)")
	enhanceCmd.Flags().StringVar(&enhanceFocus, "focus", "", "comma-separated dimensions to restrict injections to")
	enhanceCmd.Flags().StringVar(&enhanceProfile, "profile", "", "skill profile path (default from config)")
	enhanceCmd.Flags().StringVarP(&enhanceFormat, "format", "f", "", "output format (text, json)")
}

func runEnhance(cmd *cobra.Command, args []string) error {
	// Skill adaptation is optional; without a profile the output is
	// tuned for an unknown level.
	profile, err := profileFromPath(context.Background(), enhanceProfile)
	if err != nil {
		profile = nil
	}

	result := enhance.Enhance(enhance.Request{
		Prompt:        strings.Join(args, " "),
		Mode:          enhanceMode,
		CloudProvider: enhanceCloud,
		FocusAreas:    enhanceFocus,
		Profile:       profile,
	})

	switch resolveFormat(enhanceFormat) {
	case "json":
		return printJSON(result)
	default:
		fmt.Println(result.EnhancedPrompt)
		fmt.Println()
		fmt.Printf("Reasoning: %s\n", result.Reasoning)
	}
	return nil
}
