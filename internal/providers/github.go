package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

// DefaultGitHubAPIURL is used when no API URL is configured
const DefaultGitHubAPIURL = "https://api.github.com"

// GitHubProvider implements MembershipLookup using the GitHub REST API
type GitHubProvider struct {
	client *resty.Client
}

// NewGitHubProvider creates a new GitHub provider.
// The token is attached as a bearer token by an oauth2 transport; an empty
// token sends unauthenticated requests.
func NewGitHubProvider(opts Options) *GitHubProvider {
	httpClient := &http.Client{}
	if opts.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), src)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultGitHubAPIURL
	}

	client := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", "2022-11-28").
		SetHeader("User-Agent", UserAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &GitHubProvider{client: client}
}

func (g *GitHubProvider) Name() string {
	return "github"
}

// ghMembership represents the team membership response
type ghMembership struct {
	URL   string `json:"url"`
	Role  string `json:"role"`
	State string `json:"state"`
}

// ghError represents GitHub's error body
type ghError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

// GetTeamMembership implements MembershipLookup via
// GET /orgs/{org}/teams/{team_slug}/memberships/{username}
func (g *GitHubProvider) GetTeamMembership(ctx context.Context, org, team, username string) (Membership, error) {
	var result ghMembership
	var apiErr ghError

	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"org":      org,
			"team":     team,
			"username": username,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Get("/orgs/{org}/teams/{team}/memberships/{username}")
	if err != nil {
		return unavailable(0, fmt.Errorf("github membership request failed: %w", err))
	}

	if resp.IsError() {
		return fromStatus(resp.StatusCode(), apiErr.Message)
	}

	return Membership{
		Outcome:    ClassifyState(result.State),
		State:      result.State,
		StatusCode: resp.StatusCode(),
	}, nil
}
