package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jarhead00/falcon2jira/pkg/errors"
)

func TestAPIErrorIs(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		target     error
		want       bool
	}{
		{"429 is rate limited", 429, errors.ErrRateLimited, true},
		{"401 is unauthorized", 401, errors.ErrUnauthorized, true},
		{"403 is unauthorized", 403, errors.ErrUnauthorized, true},
		{"503 is transient", 503, errors.ErrTransient, true},
		{"404 is not transient", 404, errors.ErrTransient, false},
		{"429 is not unauthorized", 429, errors.ErrUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.NewAPIError("jira", tt.statusCode, "/rest/api/3/search", "boom")
			assert.Equal(t, tt.want, stderrors.Is(err, tt.target))
		})
	}
}

func TestAPIErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := errors.WrapAPI("falcon", 500, "/alerts/queries/alerts/v2", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.IsTransient(err))
	assert.Contains(t, err.Error(), "falcon API error (status 500)")
}

func TestUnresolvedAssigneeIsNotFound(t *testing.T) {
	err := &errors.UnresolvedAssigneeError{AlertID: "A1", AssigneeName: "dana"}
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), `"dana"`)
}

func TestUnsupportedTransitionError(t *testing.T) {
	err := &errors.UnsupportedTransitionError{
		IssueKey:     "SEC-9",
		Status:       "Blocked",
		TransitionID: "4",
		Available:    []string{"11", "21"},
	}
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "available: 11, 21")
}

func TestPartialReplicationError(t *testing.T) {
	cause := errors.New("timeout")
	err := &errors.PartialReplicationError{IssueKey: "SEC-9", Written: 2, Pending: 1, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "replicated 2 of 3 pending comments to SEC-9: timeout", err.Error())
}

func TestAmbiguousMatchError(t *testing.T) {
	err := &errors.AmbiguousMatchError{
		AlertID:   "A2",
		IssueKeys: []string{"SEC-1", "SEC-2"},
		ChosenKey: "SEC-2",
	}
	assert.Equal(t, "alert A2 matched 2 eligible issues (SEC-1, SEC-2); updated SEC-2 only", err.Error())
}

func TestValidationErrorFormatting(t *testing.T) {
	withField := &errors.ValidationError{Field: "MaxAlerts", Value: -1, Message: "must be positive"}
	assert.Equal(t, "validation failed for field MaxAlerts: must be positive", withField.Error())

	wrapped := errors.WrapValidation("ProjectKey", fmt.Errorf("empty"))
	assert.True(t, errors.IsValidationError(wrapped))
}
