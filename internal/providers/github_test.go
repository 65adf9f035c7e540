package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGitHubServer(t *testing.T, handler http.HandlerFunc) *GitHubProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGitHubProvider(Options{BaseURL: srv.URL, Token: "secret-token", Timeout: 5 * time.Second})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestGitHubProvider_Active(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	gh := newGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		writeJSON(w, http.StatusOK, `{"url":"x","role":"member","state":"active"}`)
	})

	m, err := gh.GetTeamMembership(context.Background(), "acme", "devs", "alice")
	require.NoError(t, err)

	assert.Equal(t, OutcomeActive, m.Outcome)
	assert.True(t, m.IsMember())
	assert.Equal(t, "active", m.State)
	assert.Equal(t, http.StatusOK, m.StatusCode)
	assert.Equal(t, "/orgs/acme/teams/devs/memberships/alice", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
}

func TestGitHubProvider_Pending(t *testing.T) {
	gh := newGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"role":"member","state":"pending"}`)
	})

	m, err := gh.GetTeamMembership(context.Background(), "acme", "devs", "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, m.Outcome)
	assert.Equal(t, "pending", m.State)
	assert.False(t, m.IsMember())
}

func TestGitHubProvider_NotFound(t *testing.T) {
	gh := newGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message":"Not Found"}`)
	})

	m, err := gh.GetTeamMembership(context.Background(), "acme", "devs", "bob")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, m.Outcome)
	assert.Equal(t, http.StatusNotFound, m.StatusCode)
}

func TestGitHubProvider_ServerError(t *testing.T) {
	gh := newGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, `{"message":"Service Unavailable"}`)
	})

	m, err := gh.GetTeamMembership(context.Background(), "acme", "devs", "bob")
	require.Error(t, err)
	assert.Equal(t, OutcomeUnavailable, m.Outcome)
	assert.Equal(t, http.StatusServiceUnavailable, m.StatusCode)
	assert.True(t, IsServerError(err))
	assert.Contains(t, err.Error(), "Service Unavailable")
}

func TestGitHubProvider_Forbidden(t *testing.T) {
	gh := newGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"message":"Resource not accessible by integration"}`)
	})

	m, err := gh.GetTeamMembership(context.Background(), "acme", "devs", "bob")
	require.Error(t, err)
	assert.Equal(t, OutcomeUnavailable, m.Outcome)
	assert.False(t, IsServerError(err))
}

func TestGitHubProvider_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gh := NewGitHubProvider(Options{BaseURL: url, Timeout: time.Second})
	m, err := gh.GetTeamMembership(context.Background(), "acme", "devs", "bob")
	require.Error(t, err)
	assert.Equal(t, OutcomeUnavailable, m.Outcome)
	assert.Equal(t, 0, m.StatusCode)
}

func TestGitHubProvider_CanceledContext(t *testing.T) {
	gh := newGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"state":"active"}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := gh.GetTeamMembership(ctx, "acme", "devs", "alice")
	require.Error(t, err)
	assert.Equal(t, OutcomeUnavailable, m.Outcome)
	assert.True(t, IsCanceled(err))
}

func TestGitHubProvider_NoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusNotFound, `{}`)
	}))
	defer srv.Close()

	gh := NewGitHubProvider(Options{BaseURL: srv.URL + "/"})
	_, err := gh.GetTeamMembership(context.Background(), "acme", "devs", "alice")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "github", gh.Name())
}
