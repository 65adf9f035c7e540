package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// GiteaProvider implements MembershipLookup using the Gitea REST API
type GiteaProvider struct {
	client *resty.Client
}

// NewGiteaProvider creates a new Gitea provider for the instance at opts.BaseURL
func NewGiteaProvider(opts Options) *GiteaProvider {
	// Gitea Actions exposes the API URL with the /api/v1 suffix already
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if !strings.HasSuffix(baseURL, "/api/v1") {
		baseURL += "/api/v1"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent)
	if opts.Token != "" {
		client.SetAuthScheme("token").SetAuthToken(opts.Token)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &GiteaProvider{client: client}
}

func (g *GiteaProvider) Name() string {
	return "gitea"
}

type giteaTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type giteaTeamSearch struct {
	OK   bool        `json:"ok"`
	Data []giteaTeam `json:"data"`
}

type giteaError struct {
	Message string `json:"message"`
}

// findTeamID resolves a team name to its id, returning 0 if no team matches
func (g *GiteaProvider) findTeamID(ctx context.Context, org, team string) (int64, *resty.Response, error) {
	var result giteaTeamSearch
	var apiErr giteaError

	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("org", org).
		SetQueryParam("q", team).
		SetResult(&result).
		SetError(&apiErr).
		Get("/orgs/{org}/teams/search")
	if err != nil {
		return 0, nil, fmt.Errorf("gitea team search failed: %w", err)
	}
	if resp.IsError() {
		return 0, resp, nil
	}

	for _, t := range result.Data {
		if strings.EqualFold(t.Name, team) {
			return t.ID, resp, nil
		}
	}
	return 0, resp, nil
}

// GetTeamMembership implements MembershipLookup.
// Gitea has no membership state, so a listed member is always active.
func (g *GiteaProvider) GetTeamMembership(ctx context.Context, org, team, username string) (Membership, error) {
	teamID, resp, err := g.findTeamID(ctx, org, team)
	if err != nil {
		return unavailable(0, err)
	}
	if resp.IsError() {
		return fromStatus(resp.StatusCode(), "team search")
	}
	if teamID == 0 {
		// Unknown team: nobody can be a member of it
		return Membership{Outcome: OutcomeNotFound, StatusCode: resp.StatusCode()}, nil
	}

	var apiErr giteaError
	resp, err = g.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"id":       strconv.FormatInt(teamID, 10),
			"username": username,
		}).
		SetError(&apiErr).
		Get("/teams/{id}/members/{username}")
	if err != nil {
		return unavailable(0, fmt.Errorf("gitea membership request failed: %w", err))
	}
	if resp.IsError() {
		return fromStatus(resp.StatusCode(), apiErr.Message)
	}

	return Membership{
		Outcome:    OutcomeActive,
		State:      StateActive,
		StatusCode: resp.StatusCode(),
	}, nil
}
