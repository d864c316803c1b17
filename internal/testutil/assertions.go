package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/combat-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// ErrorBody mirrors the API error envelope
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// AssertErrorResponse verifies the status and error message and returns the
// decoded body for field checks
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) ErrorBody {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body ErrorBody
	AssertJSONResponse(t, resp, &body)
	assert.Equal(t, expectedMessage, body.Error, "error message mismatch")
	return body
}

// AssertInitiativeOrder verifies names appear in the given order
func AssertInitiativeOrder(t *testing.T, order []*domain.Character, expected ...string) {
	t.Helper()

	names := make([]string, 0, len(order))
	for _, c := range order {
		names = append(names, c.Name)
	}
	assert.Equal(t, expected, names, "unexpected initiative order")
}
