package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Error   string            `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "world", resp.Data["hello"])
	require.Empty(t, resp.Error)
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorSimple(w, http.StatusNotFound, "user not found")

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "user not found", resp.Error)
	require.Nil(t, resp.Data)
}

func TestValidationErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ValidationError(w, "name is required")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "Validation failed", resp.Error)
	require.Equal(t, "name is required", resp.Message)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int
		wantNext bool
		wantPrev bool
	}{
		{"first of many pages", 1, 20, 100, true, false},
		{"middle page", 3, 20, 100, true, true},
		{"last page", 5, 20, 100, false, true},
		{"single page", 1, 20, 15, false, false},
		{"exact fit", 1, 20, 20, false, false},
		{"empty result", 1, 20, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			require.Equal(t, tt.page, p.Page)
			require.Equal(t, tt.limit, p.Limit)
			require.Equal(t, tt.total, p.Total)
			require.Equal(t, tt.wantNext, p.HasNext)
			require.Equal(t, tt.wantPrev, p.HasPrev)
		})
	}
}

func TestSuccessPaginated(t *testing.T) {
	w := httptest.NewRecorder()
	SuccessPaginated(w, []string{"a", "b"}, NewPagination(2, 2, 5))

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Items      []string   `json:"items"`
			Pagination Pagination `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data.Items, 2)
	require.Equal(t, 2, resp.Data.Pagination.Page)
	require.True(t, resp.Data.Pagination.HasNext)
	require.True(t, resp.Data.Pagination.HasPrev)
}
