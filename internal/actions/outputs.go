// Package actions publishes results to the workflow runner.
package actions

import (
	"sort"

	"github.com/sethvargo/go-githubactions"
)

// Runner is the part of the workflow runner the check talks to
type Runner interface {
	SetOutput(name, value string)
	Warningf(msg string, args ...any)
	Errorf(msg string, args ...any)
}

// Publisher writes outputs and annotations for one run
type Publisher struct {
	runner Runner
}

// New creates a publisher backed by the runner environment.
// Outputs go to the file named by GITHUB_OUTPUT.
func New(opts ...githubactions.Option) *Publisher {
	return NewPublisher(githubactions.New(opts...))
}

// NewPublisher creates a publisher for the given runner
func NewPublisher(runner Runner) *Publisher {
	return &Publisher{runner: runner}
}

// SetOutputs publishes every output, in name order
func (p *Publisher) SetOutputs(outputs map[string]string) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p.runner.SetOutput(name, outputs[name])
	}
}

// Indeterminate annotates a subject whose team membership could not be
// verified
func (p *Publisher) Indeterminate(subject, org, team string) {
	p.runner.Warningf("could not verify membership of %s in %s/%s, treating as not a member", subject, org, team)
}

// Fail reports a fatal error as an error annotation. The caller exits.
func (p *Publisher) Fail(err error) {
	p.runner.Errorf("%s", err)
}
