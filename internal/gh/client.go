// Package gh shells out to the GitHub CLI. It covers the two collaborations
// the monitor needs: fetching PR/issue bodies and running the webhook
// forwarder subprocess.
package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mattjoyce/prmon/internal/links"
)

// runnerFunc executes a command and returns its stdout. Injectable for tests.
type runnerFunc func(ctx context.Context, bin string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", bin, args[0], err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", bin, args[0], err)
	}
	return stdout.Bytes(), nil
}

// Client fetches PR and issue data through the gh binary.
type Client struct {
	bin    string
	run    runnerFunc
	logger *slog.Logger
}

// NewClient creates a Client. An empty bin selects "gh" from PATH.
func NewClient(bin string, logger *slog.Logger) *Client {
	if bin == "" {
		bin = "gh"
	}
	return &Client{
		bin:    bin,
		run:    defaultRunner,
		logger: logger,
	}
}

// PullRequest is the subset of PR fields the monitor reads.
type PullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	State string `json:"state"`
}

// PullRequest fetches the monitored PR.
func (c *Client) PullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	out, err := c.run(ctx, c.bin,
		"pr", "view", strconv.Itoa(number),
		"--repo", owner+"/"+repo,
		"--json", "title,body,state",
	)
	if err != nil {
		return nil, fmt.Errorf("fetch PR %s/%s#%d: %w", owner, repo, number, err)
	}
	var pr PullRequest
	if err := json.Unmarshal(out, &pr); err != nil {
		return nil, fmt.Errorf("parse PR %s/%s#%d: %w", owner, repo, number, err)
	}
	return &pr, nil
}

// IssueBody fetches the body text of an issue.
func (c *Client) IssueBody(ctx context.Context, owner, repo string, number int) (string, error) {
	out, err := c.run(ctx, c.bin,
		"issue", "view", strconv.Itoa(number),
		"--repo", owner+"/"+repo,
		"--json", "body",
	)
	if err != nil {
		return "", fmt.Errorf("fetch issue %s/%s#%d: %w", owner, repo, number, err)
	}
	var resp struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", fmt.Errorf("parse issue %s/%s#%d: %w", owner, repo, number, err)
	}
	return resp.Body, nil
}

// IssueFetcher adapts the client for link discovery.
func (c *Client) IssueFetcher() links.FetchFunc {
	return func(ctx context.Context, owner, repo string, number int) (string, error) {
		c.logger.Debug("fetching issue body", "owner", owner, "repo", repo, "issue", number)
		return c.IssueBody(ctx, owner, repo, number)
	}
}
