package providers

import (
	"context"
	"fmt"
	"time"
)

// Outcome is the result of a team membership lookup
type Outcome int

const (
	// OutcomeUnknown means no lookup was made
	OutcomeUnknown Outcome = iota
	// OutcomeActive means the user is an active member of the team
	OutcomeActive
	// OutcomeNotFound means the user is definitely not a member
	// (404, or a membership in a state other than active)
	OutcomeNotFound
	// OutcomeUnavailable means membership could not be determined
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnknown:
		return "unknown"
	case OutcomeActive:
		return "active"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Membership state values reported by the API
const (
	StateActive  = "active"
	StatePending = "pending"
)

// Membership represents a team membership lookup result
type Membership struct {
	Outcome    Outcome
	State      string // Raw membership state, empty when no membership was returned
	StatusCode int    // HTTP status of the lookup, 0 on transport failure
}

// IsMember reports whether the lookup confirmed an active membership
func (m Membership) IsMember() bool {
	return m.Outcome == OutcomeActive
}

// StatusError is returned when the API answers with an unexpected status
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error %d", e.StatusCode)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// MembershipLookup fetches the membership state of a user in an
// organization team.
//
// The returned error is non-nil only when the outcome is OutcomeUnavailable;
// a definite "not a member" is reported through the outcome alone.
type MembershipLookup interface {
	GetTeamMembership(ctx context.Context, org, team, username string) (Membership, error)

	// Provider info
	Name() string
}

// Options configures a membership lookup client
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// UserAgent is sent with every API request
const UserAgent = "team-auth"
