// Package cmd - skills commands
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"infra-review/adapters/storage"
	"infra-review/core/skills"
	"infra-review/internal/config"
)

var (
	skillsProfilePath string
	skillsFormat      string
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Inspect the tracked skill profile",
	Long: `Inspect the skill profile built up from past reviews.

The profile records weighted evidence per skill area and derives a
level from it. 'show' prints the current state; 'recommend' derives
weak areas, prerequisite gaps and next steps.`,
}

var skillsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current skill profile",
	RunE:  runSkillsShow,
}

var skillsRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend what to work on next",
	RunE:  runSkillsRecommend,
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(skillsShowCmd)
	skillsCmd.AddCommand(skillsRecommendCmd)

	skillsCmd.PersistentFlags().StringVar(&skillsProfilePath, "profile", "", "profile path (default from config)")
	skillsCmd.PersistentFlags().StringVarP(&skillsFormat, "format", "f", "", "output format (text, json)")
}

// profileFromPath loads the profile at path, or at the configured
// default when path is empty.
func profileFromPath(ctx context.Context, path string) (*skills.Profile, error) {
	if path == "" {
		path = config.Get().Skills.ProfilePath
	}

	store, err := storage.NewFileStore(path)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx)
}

func runSkillsShow(cmd *cobra.Command, args []string) error {
	profile, err := profileFromPath(context.Background(), skillsProfilePath)
	if err != nil {
		return err
	}

	switch resolveFormat(skillsFormat) {
	case "json":
		return printJSON(profile)
	default:
		printProfile(profile)
	}
	return nil
}

func runSkillsRecommend(cmd *cobra.Command, args []string) error {
	profile, err := profileFromPath(context.Background(), skillsProfilePath)
	if err != nil {
		return err
	}

	recs := skills.Recommend(profile)

	switch resolveFormat(skillsFormat) {
	case "json":
		return printJSON(recs)
	default:
		printRecommendations(recs)
	}
	return nil
}
