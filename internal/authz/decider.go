// Package authz decides whether subjects are authorized, either through the
// static whitelist or through membership of an organization team.
package authz

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sallandpioneers/team-auth/internal/providers"
	"github.com/sallandpioneers/team-auth/internal/security"
)

// Settings holds the inputs shared by every decision of a run
type Settings struct {
	Whitelist security.Whitelist
	Org       string
	Team      string // Empty disables the team check
}

// TeamCheckEnabled reports whether team membership is queried
func (s Settings) TeamCheckEnabled() bool {
	return s.Team != ""
}

// Result is the authorization decision for one subject
type Result struct {
	Subject     string
	Whitelisted bool
	TeamMember  bool

	// Indeterminate is set when the team lookup could not be answered.
	// TeamMember is false in that case, but it is not a definite "no".
	Indeterminate bool

	// Lookup is the outcome of the team lookup, OutcomeUnknown if none was made
	Lookup providers.Outcome
}

// Authorized reports whether the subject is whitelisted or a team member
func (r Result) Authorized() bool {
	return r.Whitelisted || r.TeamMember
}

// Decider evaluates subjects against the whitelist and team membership
type Decider struct {
	settings Settings
	lookup   providers.MembershipLookup
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// Option customizes a Decider
type Option func(*Decider)

// WithTracer sets the tracer used for decision spans
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Decider) {
		d.tracer = tracer
	}
}

// NewDecider creates a new decider. lookup may be nil when the team check
// is disabled.
func NewDecider(settings Settings, lookup providers.MembershipLookup, logger zerolog.Logger, opts ...Option) *Decider {
	d := &Decider{
		settings: settings,
		lookup:   lookup,
		logger:   logger,
		tracer:   otel.Tracer("github.com/sallandpioneers/team-auth/internal/authz"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decide evaluates a single subject. It never fails: lookup errors are
// logged and reported as a negative, possibly indeterminate, result.
func (d *Decider) Decide(ctx context.Context, subject string) Result {
	ctx, span := d.tracer.Start(ctx, "authz.Decide", trace.WithAttributes(
		attribute.String("subject", subject),
		attribute.String("org", d.settings.Org),
		attribute.String("team", d.settings.Team),
	))
	defer span.End()

	logger := d.logger.With().
		Str("subject", subject).
		Str("org", d.settings.Org).
		Str("team", d.settings.Team).
		Logger()

	result := Result{Subject: subject}

	if subject == "" {
		logger.Warn().Msg("Empty subject, not authorized")
		span.SetAttributes(attribute.Bool("authorized", false))
		return result
	}

	// The whitelist is in memory, check it before going to the network
	if !d.settings.Whitelist.Empty() {
		logger.Debug().Int("whitelist_size", d.settings.Whitelist.Len()).Msg("Checking whitelist")
		result.Whitelisted = d.settings.Whitelist.Contains(subject)
	}

	if !result.Whitelisted && d.settings.TeamCheckEnabled() {
		d.checkTeam(ctx, logger, span, &result)
	}

	span.SetAttributes(
		attribute.Bool("whitelisted", result.Whitelisted),
		attribute.Bool("team_member", result.TeamMember),
		attribute.Bool("authorized", result.Authorized()),
	)

	logger.Info().
		Bool("whitelisted", result.Whitelisted).
		Bool("team_member", result.TeamMember).
		Bool("authorized", result.Authorized()).
		Msg("Authorization decided")

	return result
}

func (d *Decider) checkTeam(ctx context.Context, logger zerolog.Logger, span trace.Span, result *Result) {
	if d.lookup == nil {
		logger.Error().Msg("Team check enabled without a membership lookup")
		result.Indeterminate = true
		result.Lookup = providers.OutcomeUnavailable
		return
	}

	logger.Debug().Str("provider", d.lookup.Name()).Msg("Checking team membership")

	membership, err := d.lookup.GetTeamMembership(ctx, d.settings.Org, d.settings.Team, result.Subject)
	result.Lookup = membership.Outcome
	span.SetAttributes(
		attribute.String("lookup.outcome", membership.Outcome.String()),
		attribute.Int("lookup.status_code", membership.StatusCode),
	)

	switch membership.Outcome {
	case providers.OutcomeActive:
		result.TeamMember = true
	case providers.OutcomeNotFound:
		logger.Debug().
			Str("lookup_outcome", membership.Outcome.String()).
			Str("state", membership.State).
			Int("status", membership.StatusCode).
			Msg("User is not an active team member")
	default:
		result.Indeterminate = true
		if err != nil {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "membership lookup unavailable")

		event := logger.Warn().
			Err(err).
			Str("lookup_outcome", providers.OutcomeUnavailable.String()).
			Int("status", membership.StatusCode)
		if providers.IsServerError(err) {
			event.Msg("Team membership could not be verified. This is likely an API error")
		} else {
			event.Msg("Team membership could not be verified")
		}
	}
}

// DecideAll evaluates subjects one at a time in input order.
// Duplicate subjects are evaluated independently.
func (d *Decider) DecideAll(ctx context.Context, subjects []string) []Result {
	results := make([]Result, 0, len(subjects))
	for _, subject := range subjects {
		results = append(results, d.Decide(ctx, subject))
	}
	return results
}
