// Package cmd - advise command
package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"infra-review/adapters/source"
	"infra-review/adapters/terraform/hcl"
	"infra-review/core/advisor"
	"infra-review/internal/config"
)

var (
	adviseFormat string
	adviseDir    string
)

// adviseCmd represents the advise command
var adviseCmd = &cobra.Command{
	Use:   "advise [resource-type...]",
	Short: "AWS cost and security advice for resource types",
	Long: `Derive AWS cost and security advice from Terraform resource types.

Resource types come from the arguments, or from scanning a directory
when none are given.

Examples:
  infra-review advise aws_nat_gateway aws_instance
  infra-review advise --dir ./infrastructure`,
	RunE: runAdvise,
}

func init() {
	rootCmd.AddCommand(adviseCmd)

	adviseCmd.Flags().StringVarP(&adviseFormat, "format", "f", "", "output format (text, json)")
	adviseCmd.Flags().StringVarP(&adviseDir, "dir", "d", ".", "directory to scan when no resource types are given")
}

func runAdvise(cmd *cobra.Command, args []string) error {
	resourceTypes := args
	if len(resourceTypes) == 0 {
		scanned, err := scanResourceTypes(context.Background(), adviseDir)
		if err != nil {
			return err
		}
		resourceTypes = scanned
	}
	if len(resourceTypes) == 0 {
		fmt.Println("No resource types found.")
		return nil
	}

	report := advisor.Advise(resourceTypes)

	switch resolveFormat(adviseFormat) {
	case "json":
		return printJSON(report)
	default:
		printAdvisorReport(report)
	}
	return nil
}

// scanResourceTypes parses every Terraform file under dir and collects
// resource types in file order.
func scanResourceTypes(ctx context.Context, dir string) ([]string, error) {
	cfg := config.Get()
	files, err := source.NewLocal(dir, cfg.Analysis.MaxFileSizeKB).TerraformFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read terraform files: %w", err)
	}

	names := lo.Keys(files)
	sort.Strings(names)

	var resourceTypes []string
	for _, name := range names {
		tree := hcl.Parse(name, files[name])
		for _, rb := range tree.Resources {
			resourceTypes = append(resourceTypes, rb.Type)
		}
	}
	return lo.Uniq(resourceTypes), nil
}
