package authz

import (
	"strconv"
	"strings"
)

// OutputSeparator joins per-subject values in batch outputs
const OutputSeparator = ","

// Outputs holds the published values of a run
type Outputs struct {
	Whitelisted   string
	TeamMember    string
	Authorized    string
	Indeterminate string
}

// Map returns the outputs keyed by their published names
func (o Outputs) Map() map[string]string {
	return map[string]string{
		"whitelisted":   o.Whitelisted,
		"team_member":   o.TeamMember,
		"authorized":    o.Authorized,
		"indeterminate": o.Indeterminate,
	}
}

// SplitSubjects splits the username input on the batch delimiter.
// Positions are preserved: empty segments are kept so outputs stay aligned.
func SplitSubjects(raw, delimiter string) []string {
	if delimiter == "" {
		return []string{strings.TrimSpace(raw)}
	}

	parts := strings.Split(raw, delimiter)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// SingleOutputs renders the outputs for one subject
func SingleOutputs(r Result) Outputs {
	return Outputs{
		Whitelisted:   strconv.FormatBool(r.Whitelisted),
		TeamMember:    strconv.FormatBool(r.TeamMember),
		Authorized:    strconv.FormatBool(r.Authorized()),
		Indeterminate: strconv.FormatBool(r.Indeterminate),
	}
}

// BatchOutputs renders results as comma-joined boolean lists aligned with
// the subject order
func BatchOutputs(results []Result) Outputs {
	whitelisted := make([]string, len(results))
	teamMember := make([]string, len(results))
	authorized := make([]string, len(results))
	indeterminate := make([]string, len(results))

	for i, r := range results {
		whitelisted[i] = strconv.FormatBool(r.Whitelisted)
		teamMember[i] = strconv.FormatBool(r.TeamMember)
		authorized[i] = strconv.FormatBool(r.Authorized())
		indeterminate[i] = strconv.FormatBool(r.Indeterminate)
	}

	return Outputs{
		Whitelisted:   strings.Join(whitelisted, OutputSeparator),
		TeamMember:    strings.Join(teamMember, OutputSeparator),
		Authorized:    strings.Join(authorized, OutputSeparator),
		Indeterminate: strings.Join(indeterminate, OutputSeparator),
	}
}

// ParseBatchOutput splits a batch output back into per-subject booleans
func ParseBatchOutput(value string) ([]bool, error) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, OutputSeparator)
	out := make([]bool, len(parts))
	for i, p := range parts {
		b, err := strconv.ParseBool(p)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
