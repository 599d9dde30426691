package api_connection_update_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dracory/mole/api/api_connection_update"
	"github.com/dracory/mole/internal/ports/portstest"
	"github.com/dracory/mole/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServeHTTP(t *testing.T) {
	owner := "u1"

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		userID  string
		status  string
		message string
	}{
		{name: "rename", method: http.MethodPost, target: "/?id=c1", body: `{"name":"Renamed"}`, userID: "u1", status: "success"},
		{name: "patch verb", method: http.MethodPatch, target: "/?id=c1", body: `{"sslEnabled":false}`, userID: "u1", status: "success"},
		{name: "not owned", method: http.MethodPost, target: "/?id=c1", body: `{}`, userID: "u2", status: "error", message: "Database connection not found"},
		{name: "missing id", method: http.MethodPost, target: "/", body: `{}`, userID: "u1", status: "error", message: "id is required"},
		{name: "wrong method", method: http.MethodGet, target: "/?id=c1", userID: "u1", status: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := portstest.New()
			svc.Seed(types.ConnectionRecord{ID: "c1", Name: "Original", OwnerUserID: &owner})
			handler := api_connection_update.New(types.Config{}, svc)

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.userID != "" {
				req.Header.Set("X-User-Id", tt.userID)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp["status"])
			if tt.message != "" {
				assert.Equal(t, tt.message, resp["message"])
			}
		})
	}
}

func TestHandler_PatchDistinguishesAbsentFields(t *testing.T) {
	owner := "u1"
	svc := portstest.New()
	svc.Seed(types.ConnectionRecord{ID: "c1", Name: "Original", OwnerUserID: &owner})
	handler := api_connection_update.New(types.Config{}, svc)

	req := httptest.NewRequest(http.MethodPost, "/?id=c1", strings.NewReader(`{"sslEnabled":false,"port":6432}`))
	req.Header.Set("X-User-Id", "u1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	patch := svc.LastPatch
	require.NotNil(t, patch.SSLEnabled)
	assert.False(t, *patch.SSLEnabled)
	require.NotNil(t, patch.Port)
	assert.Equal(t, 6432, *patch.Port)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.Password)
}

func TestHandler_RejectsDisabledEngine(t *testing.T) {
	owner := "u1"
	svc := portstest.New()
	svc.Seed(types.ConnectionRecord{ID: "c1", Name: "Original", Engine: "sqlite", OwnerUserID: &owner})
	handler := api_connection_update.New(types.Config{EnabledEngines: []string{"sqlite"}}, svc)

	req := httptest.NewRequest(http.MethodPost, "/?id=c1", strings.NewReader(`{"engine":"postgresql"}`))
	req.Header.Set("X-User-Id", "u1")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "invalid connection: engine not enabled: postgresql", resp["message"])
	assert.Nil(t, svc.LastPatch.Engine)
}
