package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saveBody struct {
	Content         string `json:"content"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"content":"hi","expected_version":2}`, ""},
		{"unknown field", `{"content":"hi","extra":true}`, "unknown field"},
		{"empty", ``, "empty"},
		{"trailing data", `{"content":"hi"}{"content":"again"}`, "unexpected data"},
		{"wrong type", `{"expected_version":"two"}`, "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			var dest saveBody

			err := ParseJSON(httptest.NewRecorder(), r, &dest)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "hi", dest.Content)
				require.NotNil(t, dest.ExpectedVersion)
				assert.Equal(t, int64(2), *dest.ExpectedVersion)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseOptionalJSON_EmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	dest := saveBody{Content: "unchanged"}

	require.NoError(t, ParseOptionalJSON(httptest.NewRecorder(), r, &dest))
	assert.Equal(t, "unchanged", dest.Content)
}

func TestRespondErrorWithExtras(t *testing.T) {
	w := httptest.NewRecorder()
	RespondErrorWithExtras(w, http.StatusConflict, "stale", map[string]interface{}{"server_version": 3})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "stale", body["detail"])
	assert.EqualValues(t, 409, body["status"])
	assert.EqualValues(t, 3, body["server_version"])
}

func TestUserIDContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetUserID(r))
	assert.Equal(t, "u1", GetUserID(WithUserID(r, "u1")))
}
