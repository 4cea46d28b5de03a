package errors

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode_Name(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{CodeUnmappedError, "UNMAPPED_ERROR"},
		{CodeUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{CodeInvalidParams, "INVALID_PARAMS"},
		{CodeInvalidToken, "INVALID_TOKEN"},
		{CodeUserNotFound, "USER_NOT_FOUND"},
		// Shared statuses resolve to the first declared name.
		{CodeLoginError, "INVALID_TOKEN"},
		{CodeServerError, "UNMAPPED_ERROR"},
		{ErrorCode(418), "UNMAPPED_ERROR"},
		{ErrorCode(0), "UNMAPPED_ERROR"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.code.Name())
		})
	}
}

func TestNewApplicationError(t *testing.T) {
	t.Run("derives code title and status", func(t *testing.T) {
		appErr := NewApplicationError(&ErrorInput{Code: CodeInvalidParams})

		assert.Equal(t, "INVALID_PARAMS", appErr.Code)
		assert.Equal(t, "INVALID_PARAMS", appErr.Title)
		assert.Equal(t, 400, appErr.StatusCode)
		assert.Equal(t, `{"code":400}`, appErr.Error())
	})

	t.Run("keeps explicit title", func(t *testing.T) {
		appErr := NewApplicationError(&ErrorInput{Code: CodeUserNotFound, Title: "User not found"})

		assert.Equal(t, "USER_NOT_FOUND", appErr.Code)
		assert.Equal(t, "User not found", appErr.Title)
		assert.Equal(t, 404, appErr.StatusCode)
		assert.Equal(t, `{"code":404,"title":"User not found"}`, appErr.Error())
	})

	t.Run("empty input", func(t *testing.T) {
		appErr := NewApplicationError(&ErrorInput{})

		assert.Equal(t, "{}", appErr.Error())
		assert.Equal(t, "UNMAPPED_ERROR", appErr.Code)
		assert.Equal(t, 0, appErr.StatusCode)
	})

	t.Run("nil input", func(t *testing.T) {
		appErr := NewApplicationError(nil)

		assert.Equal(t, "{}", appErr.Error())
		assert.Equal(t, "UNMAPPED_ERROR", appErr.Code)
	})

	t.Run("server error defaults", func(t *testing.T) {
		appErr := NewApplicationError(&ErrorInput{Code: CodeServerError})

		assert.Equal(t, 500, appErr.StatusCode)
	})

	t.Run("generates request id and timestamp", func(t *testing.T) {
		fixed := time.Date(2024, 5, 1, 10, 30, 0, 123_000_000, time.UTC)
		original := now
		now = func() time.Time { return fixed }
		defer func() { now = original }()

		appErr := NewApplicationError(&ErrorInput{Code: CodeUnprocessableEntity})

		_, err := uuid.Parse(appErr.RequestID)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01T10:30:00.123Z", appErr.Timestamp)
	})

	t.Run("keeps explicit request id and timestamp", func(t *testing.T) {
		appErr := NewApplicationError(&ErrorInput{
			Code:      CodeUnprocessableEntity,
			RequestID: "req-1",
			Timestamp: "2024-01-01T00:00:00.000Z",
		})

		assert.Equal(t, "req-1", appErr.RequestID)
		assert.Equal(t, "2024-01-01T00:00:00.000Z", appErr.Timestamp)
	})

	t.Run("request id is fresh per construction", func(t *testing.T) {
		first := NewApplicationError(&ErrorInput{Code: CodeUserNotFound})
		second := NewApplicationError(&ErrorInput{Code: CodeUserNotFound})

		assert.Equal(t, first.Code, second.Code)
		assert.Equal(t, first.Title, second.Title)
		assert.Equal(t, first.StatusCode, second.StatusCode)
		assert.NotEqual(t, first.RequestID, second.RequestID)
	})

	t.Run("replaces circular references", func(t *testing.T) {
		input := &ErrorInput{Code: CodeInvalidParams}
		input.Details = map[string]any{"circular": input, "list": []any{input, "x"}}

		appErr := NewApplicationError(input)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(appErr.Error()), &decoded))
		details := decoded["details"].(map[string]any)
		assert.Equal(t, "[Circular]", details["circular"])
		assert.Equal(t, []any{"[Circular]", "x"}, details["list"])
	})

	t.Run("replaces a map that contains itself", func(t *testing.T) {
		m := map[string]any{"name": "payload"}
		m["self"] = m

		appErr := NewApplicationError(&ErrorInput{Code: CodeInvalidParams, Details: m})

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(appErr.Error()), &decoded))
		details := decoded["details"].(map[string]any)
		assert.Equal(t, "payload", details["name"])
		assert.Equal(t, "[Circular]", details["self"])
	})

	t.Run("replaces a nested input that references itself", func(t *testing.T) {
		nested := &ErrorInput{Code: CodeUserNotFound, Title: "nested"}
		nested.Details = map[string]any{"back": nested}

		appErr := NewApplicationError(&ErrorInput{Code: CodeInvalidParams, Details: nested})

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(appErr.Error()), &decoded))
		details := decoded["details"].(map[string]any)
		assert.Equal(t, "nested", details["title"])
		assert.Equal(t, "[Circular]", details["details"].(map[string]any)["back"])
	})

	t.Run("keeps shared values that are not cycles", func(t *testing.T) {
		shared := map[string]any{"k": "v"}

		appErr := NewApplicationError(&ErrorInput{
			Code:    CodeInvalidParams,
			Details: map[string]any{"a": shared, "b": shared},
		})

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(appErr.Error()), &decoded))
		details := decoded["details"].(map[string]any)
		assert.Equal(t, map[string]any{"k": "v"}, details["a"])
		assert.Equal(t, map[string]any{"k": "v"}, details["b"])
	})
}

func TestApplicationError_Body(t *testing.T) {
	appErr := NewApplicationError(&ErrorInput{Code: CodeUnprocessableEntity, Title: "Error updating user"})

	body := appErr.Body()

	assert.Equal(t, ErrorBody{
		Code:   "UNPROCESSABLE_ENTITY",
		Title:  "Error updating user",
		Status: 422,
		Detail: `{"code":422,"title":"Error updating user"}`,
	}, body)
}

func TestAsApplicationError(t *testing.T) {
	appErr := NewApplicationError(&ErrorInput{Code: CodeUserNotFound})

	found, ok := AsApplicationError(Wrap(appErr, "context"))
	assert.True(t, ok)
	assert.Same(t, appErr, found)

	_, ok = AsApplicationError(ErrConflict)
	assert.False(t, ok)
}
