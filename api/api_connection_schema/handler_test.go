package api_connection_schema_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dracory/mole/api/api_connection_schema"
	"github.com/dracory/mole/internal/ports/portstest"
	"github.com/dracory/mole/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServeHTTP(t *testing.T) {
	owner := "u1"
	okSchema := types.SchemaSnapshot{
		Success: true,
		Tables: []types.TableInfo{
			{Name: "users", Type: types.TableTypeTable, RowCount: 10, SizeLabel: "16 KB", ColumnCount: 3},
		},
		TableColumns: map[string][]types.ColumnInfo{"users": {{Name: "id", DataType: "int", KeyRole: "PRI"}}},
		TotalSize:    "16 KB",
	}
	failedSchema := types.SchemaSnapshot{
		Success:      false,
		Message:      "Password decryption failed",
		Tables:       []types.TableInfo{},
		TableColumns: map[string][]types.ColumnInfo{},
		TotalSize:    "N/A",
	}

	tests := []struct {
		name    string
		schema  types.SchemaSnapshot
		target  string
		userID  string
		status  string
		message string
	}{
		{name: "schema", schema: okSchema, target: "/?id=c1", userID: "u1", status: "success"},
		{name: "introspection failure", schema: failedSchema, target: "/?id=c1", userID: "u1", status: "error", message: "Password decryption failed"},
		{name: "not owned", schema: okSchema, target: "/?id=c1", userID: "u2", status: "error", message: "Database connection not found"},
		{name: "missing user", schema: okSchema, target: "/?id=c1", status: "error", message: "user is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := portstest.New()
			svc.Seed(types.ConnectionRecord{ID: "c1", OwnerUserID: &owner})
			svc.Schema = tt.schema
			handler := api_connection_schema.New(types.Config{}, svc)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
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
			if tt.status != "success" {
				return
			}

			data := resp["data"].(map[string]any)
			schema := data["schema"].(map[string]any)
			assert.Equal(t, "16 KB", schema["totalSize"])
			tables := schema["tables"].([]any)
			require.Len(t, tables, 1)
			table := tables[0].(map[string]any)
			assert.Equal(t, "users", table["name"])
			assert.Equal(t, "TABLE", table["type"])
			assert.EqualValues(t, 10, table["rows"])
		})
	}
}
