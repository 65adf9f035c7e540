package providers

import (
	"context"
	"sync"
)

// MockProvider is a mock implementation of MembershipLookup for testing
type MockProvider struct {
	mu sync.RWMutex

	// Membership storage: org/team/username -> state
	States map[string]string

	// Failures: org/team/username -> error returned as OutcomeUnavailable
	Errors map[string]error

	// StatusCodes: org/team/username -> status classified with ClassifyStatus
	StatusCodes map[string]int

	// Tracking calls for assertions
	Calls []MockLookup
}

// MockLookup tracks a membership lookup
type MockLookup struct {
	Org      string
	Team     string
	Username string
}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		States:      make(map[string]string),
		Errors:      make(map[string]error),
		StatusCodes: make(map[string]int),
	}
}

func mockKey(org, team, username string) string {
	return org + "/" + team + "/" + username
}

// SetMembership records a membership in the given state
func (m *MockProvider) SetMembership(org, team, username, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.States[mockKey(org, team, username)] = state
}

// SetStatus makes lookups for the user answer with an HTTP status
func (m *MockProvider) SetStatus(org, team, username string, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusCodes[mockKey(org, team, username)] = statusCode
}

// SetError makes lookups for the user fail without a status
func (m *MockProvider) SetError(org, team, username string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[mockKey(org, team, username)] = err
}

// CallCount returns the number of lookups made
func (m *MockProvider) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Calls)
}

func (m *MockProvider) Name() string {
	return "mock"
}

// GetTeamMembership implements MembershipLookup
func (m *MockProvider) GetTeamMembership(ctx context.Context, org, team, username string) (Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockLookup{Org: org, Team: team, Username: username})

	if err := ctx.Err(); err != nil {
		return unavailable(0, err)
	}

	key := mockKey(org, team, username)
	if err, ok := m.Errors[key]; ok {
		return unavailable(0, err)
	}
	if code, ok := m.StatusCodes[key]; ok {
		return fromStatus(code, "")
	}
	if state, ok := m.States[key]; ok {
		return Membership{Outcome: ClassifyState(state), State: state, StatusCode: 200}, nil
	}
	return Membership{Outcome: OutcomeNotFound, StatusCode: 404}, nil
}
