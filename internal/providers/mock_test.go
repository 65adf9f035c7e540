package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockProvider(t *testing.T) {
	ctx := context.Background()
	m := NewMockProvider()
	m.SetMembership("acme", "devs", "alice", StateActive)
	m.SetMembership("acme", "devs", "pat", StatePending)
	m.SetStatus("acme", "devs", "sam", http.StatusBadGateway)
	m.SetError("acme", "devs", "net", errors.New("connection reset"))

	res, err := m.GetTeamMembership(ctx, "acme", "devs", "alice")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeActive, res.Outcome)

	res, err = m.GetTeamMembership(ctx, "acme", "devs", "pat")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, res.Outcome)

	res, err = m.GetTeamMembership(ctx, "acme", "devs", "nobody")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, res.Outcome)

	res, err = m.GetTeamMembership(ctx, "acme", "devs", "sam")
	assert.True(t, IsServerError(err))
	assert.Equal(t, OutcomeUnavailable, res.Outcome)

	res, err = m.GetTeamMembership(ctx, "acme", "devs", "net")
	assert.EqualError(t, err, "connection reset")
	assert.Equal(t, OutcomeUnavailable, res.Outcome)

	assert.Equal(t, 5, m.CallCount())
	assert.Equal(t, MockLookup{Org: "acme", Team: "devs", Username: "alice"}, m.Calls[0])
}
