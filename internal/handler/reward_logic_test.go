package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestUploadRewardImageRequiresAdmin(t *testing.T) {
	// Sans utilisateur admin dans le contexte, l'upload est refusé avant
	// toute lecture du corps ou accès à la base
	req := httptest.NewRequest(http.MethodPost, "/rewards/reward-123/image", nil)
	rec := httptest.NewRecorder()

	UploadRewardImage(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "admin access required", resp.Error)
}
