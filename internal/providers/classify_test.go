package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   Outcome
	}{
		// Definite answer
		{http.StatusNotFound, OutcomeNotFound},

		// Server errors
		{http.StatusInternalServerError, OutcomeUnavailable},
		{http.StatusBadGateway, OutcomeUnavailable},
		{http.StatusServiceUnavailable, OutcomeUnavailable},
		{http.StatusGatewayTimeout, OutcomeUnavailable},

		// Token and rate limit problems
		{http.StatusUnauthorized, OutcomeUnavailable},
		{http.StatusForbidden, OutcomeUnavailable},
		{http.StatusTooManyRequests, OutcomeUnavailable},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyStatus(tt.statusCode))
		})
	}
}

func TestClassifyState(t *testing.T) {
	assert.Equal(t, OutcomeActive, ClassifyState("active"))
	assert.Equal(t, OutcomeNotFound, ClassifyState("pending"))
	assert.Equal(t, OutcomeNotFound, ClassifyState(""))
	assert.Equal(t, OutcomeNotFound, ClassifyState("Active"))
}

func TestFromStatus(t *testing.T) {
	m, err := fromStatus(http.StatusNotFound, "Not Found")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, m.Outcome)
	assert.Equal(t, http.StatusNotFound, m.StatusCode)

	m, err = fromStatus(http.StatusServiceUnavailable, "down")
	assert.Equal(t, OutcomeUnavailable, m.Outcome)
	assert.EqualError(t, err, "API error 503: down")
	assert.True(t, IsServerError(err))

	_, err = fromStatus(http.StatusForbidden, "")
	assert.EqualError(t, err, "API error 403")
	assert.False(t, IsServerError(err))
}

func TestIsServerError_Wrapped(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &StatusError{StatusCode: 502})
	assert.True(t, IsServerError(err))
	assert.False(t, IsServerError(errors.New("API error 502")))
	assert.False(t, IsServerError(nil))
}

func TestIsCanceled(t *testing.T) {
	assert.True(t, IsCanceled(context.Canceled))
	assert.True(t, IsCanceled(fmt.Errorf("request: %w", context.DeadlineExceeded)))
	assert.False(t, IsCanceled(errors.New("connection refused")))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "unknown", OutcomeUnknown.String())
	assert.Equal(t, "active", OutcomeActive.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "unavailable", OutcomeUnavailable.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}
