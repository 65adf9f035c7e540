package providers

import (
	"context"
	"errors"
	"net/http"
)

// ClassifyStatus classifies a non-success HTTP status from a membership lookup
func ClassifyStatus(statusCode int) Outcome {
	if statusCode == http.StatusNotFound {
		return OutcomeNotFound
	}
	// 5xx means the API could not answer. 401, 403 and 429 are token or
	// rate limit problems and say nothing about the user either.
	return OutcomeUnavailable
}

// ClassifyState classifies the state of a returned membership
func ClassifyState(state string) Outcome {
	if state == StateActive {
		return OutcomeActive
	}
	return OutcomeNotFound
}

// unavailable builds the result for a lookup that could not be answered
func unavailable(statusCode int, err error) (Membership, error) {
	return Membership{Outcome: OutcomeUnavailable, StatusCode: statusCode}, err
}

// fromStatus turns a non-success response into a lookup result
func fromStatus(statusCode int, message string) (Membership, error) {
	if ClassifyStatus(statusCode) == OutcomeNotFound {
		return Membership{Outcome: OutcomeNotFound, StatusCode: statusCode}, nil
	}
	return unavailable(statusCode, &StatusError{StatusCode: statusCode, Message: message})
}

// IsServerError reports whether err carries a 5xx status
func IsServerError(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 && se.StatusCode < 600
	}
	return false
}

// IsCanceled reports whether err was caused by context cancellation
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
