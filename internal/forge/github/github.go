package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	github_ratelimit "github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"

	"github.com/calegrey/prflight/internal/forge"
)

// Client implements forge.Lister against the GitHub REST API.
// Works with both github.com and GitHub Enterprise endpoints.
type Client struct {
	client *gh.Client
	owner  string
	repo   string
}

// NewClient creates a GitHub client for the given owner/repo.
// The token authenticates via an oauth2 transport, wrapped with
// go-github-ratelimit middleware for automatic rate limit handling.
// Endpoint selects the instance: anything other than github.com is treated
// as a GitHub Enterprise base URL.
func NewClient(endpoint, owner, repo, token string) (*Client, error) {
	var base http.RoundTripper
	if token != "" {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}

	httpClient := github_ratelimit.NewClient(base)
	client := gh.NewClient(httpClient)

	if isEnterprise(endpoint) {
		var err error
		client, err = client.WithEnterpriseURLs(endpoint, endpoint)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise endpoint %q: %w", endpoint, err)
		}
	}

	return &Client{client: client, owner: owner, repo: repo}, nil
}

// ListOpen returns all open pull requests for the repository, paginating
// until the service reports no further pages.
func (c *Client) ListOpen(ctx context.Context) ([]forge.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var prs []forge.PullRequest
	for {
		page, resp, err := c.client.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing open pull requests for %s/%s: %w", c.owner, c.repo, err)
		}
		for _, pr := range page {
			prs = append(prs, forge.PullRequest{
				Number:  pr.GetNumber(),
				BaseRef: pr.GetBase().GetRef(),
				HeadRef: pr.GetHead().GetRef(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	slog.Debug("listed open pull requests", "owner", c.owner, "repo", c.repo, "count", len(prs))
	return prs, nil
}

// isEnterprise reports whether the endpoint points at something other than
// the public GitHub API.
func isEnterprise(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host != "github.com" && host != "api.github.com" && host != "www.github.com"
}

// Verify Client implements forge.Lister at compile time.
var _ forge.Lister = (*Client)(nil)
