// Package github fetches repository files through the GitHub REST API so
// remote repositories can be analyzed without a local checkout.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"infra-review/adapters/source"
	"infra-review/internal/logging"
)

const defaultBaseURL = "https://api.github.com"

// ErrNoToken is returned when no API token is configured.
var ErrNoToken = errors.New("github token not configured")

// APIError is a non-200 response from the GitHub API.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// Config configures the GitHub client
type Config struct {
	// Owner is the repository owner
	Owner string `json:"owner"`

	// Repo is the repository name
	Repo string `json:"repo"`

	// Token authenticates API requests
	Token string `json:"token"`

	// Branch is the ref used for tree listings (defaults to "main")
	Branch string `json:"branch"`

	// BaseURL overrides the API endpoint (for GitHub Enterprise and tests)
	BaseURL string `json:"base_url"`

	// Timeout bounds each API request
	Timeout time.Duration `json:"timeout"`
}

// Client is a GitHub-backed file source.
type Client struct {
	config Config
	http   *http.Client
	logger *zap.Logger
}

var _ source.FileSource = (*Client)(nil)

// New creates a GitHub client
func New(config Config) (*Client, error) {
	if config.Owner == "" || config.Repo == "" {
		return nil, errors.New("github: owner and repo are required")
	}
	if config.Branch == "" {
		config.Branch = "main"
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logging.Named("github"),
	}, nil
}

type treeItem struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// ListPaths lists every blob path in the repository tree.
func (c *Client) ListPaths(ctx context.Context) ([]string, error) {
	var tree struct {
		Tree []treeItem `json:"tree"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
		c.config.BaseURL, c.config.Owner, c.config.Repo, c.config.Branch)
	if err := c.getJSON(ctx, url, &tree); err != nil {
		return nil, err
	}

	return lo.FilterMap(tree.Tree, func(item treeItem, _ int) (string, bool) {
		return item.Path, item.Type == "blob"
	}), nil
}

// ReadFile fetches one file's content via the contents API. Base64 payloads
// arrive with embedded newlines, which are stripped before decoding.
func (c *Client) ReadFile(ctx context.Context, path string) (string, error) {
	var file struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.config.BaseURL, c.config.Owner, c.config.Repo, path)
	if err := c.getJSON(ctx, url, &file); err != nil {
		return "", err
	}

	if file.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return string(decoded), nil
	}
	return file.Content, nil
}

// TerraformFiles fetches every .tf and .tfvars file in the repository.
// Unreadable files are logged and skipped.
func (c *Client) TerraformFiles(ctx context.Context) (map[string]string, error) {
	paths, err := c.ListPaths(ctx)
	if err != nil {
		return nil, err
	}

	files := map[string]string{}
	for _, path := range paths {
		if !strings.HasSuffix(path, ".tf") && !strings.HasSuffix(path, ".tfvars") {
			continue
		}
		content, err := c.ReadFile(ctx, path)
		if err != nil {
			c.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}
		files[path] = content
	}
	return files, nil
}

// WorkflowFiles fetches the files under .github/workflows, keyed by file
// name. Repositories without a workflows directory yield an empty map.
func (c *Client) WorkflowFiles(ctx context.Context) (map[string]string, error) {
	var entries []struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		DownloadURL string `json:"download_url"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/contents/.github/workflows",
		c.config.BaseURL, c.config.Owner, c.config.Repo)
	if err := c.getJSON(ctx, url, &entries); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	workflows := map[string]string{}
	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		content, err := c.download(ctx, entry.DownloadURL)
		if err != nil {
			c.logger.Warn("skipping unreadable workflow", zap.String("name", entry.Name), zap.Error(err))
			continue
		}
		workflows[entry.Name] = content
	}
	return workflows, nil
}

// getJSON performs an authenticated API request and decodes the response.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if c.config.Token == "" {
		return ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, URL: url, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// download fetches a raw download URL without API headers.
func (c *Client) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read download: %w", err)
	}
	return string(body), nil
}
