// Package cmd - file source selection
package cmd

import (
	"fmt"
	"os"
	"strings"

	"infra-review/adapters/source"
	"infra-review/adapters/source/github"
	"infra-review/internal/config"
)

// resolveSource picks the file source for a command: a GitHub repository
// when repoRef is set, the local directory otherwise. Remote access
// authenticates with the GITHUB_TOKEN environment variable.
func resolveSource(dir, repoRef, branch string) (source.FileSource, error) {
	if repoRef == "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", dir)
		}
		return source.NewLocal(dir, config.Get().Analysis.MaxFileSizeKB), nil
	}

	owner, name, ok := strings.Cut(repoRef, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", repoRef)
	}

	return github.New(github.Config{
		Owner:  owner,
		Repo:   name,
		Branch: branch,
		Token:  os.Getenv("GITHUB_TOKEN"),
	})
}
