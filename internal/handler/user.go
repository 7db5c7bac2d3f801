package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/scanner"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/gorilla/mux"
)

// GetUsers récupère tous les utilisateurs (admin, paginé)
func GetUsers(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count users", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, name, email, avatar, ward, provider, eco_score, is_admin, email_verified,
		        join_date, created_at, updated_at, created_by, updated_by
		 FROM users WHERE deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query users", err)
		return
	}
	defer rows.Close()

	users := []*model.UserProfile{}
	for rows.Next() {
		user, err := scanner.ScanUserProfile(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan user", err)
			return
		}
		users = append(users, user)
	}

	utils.SuccessPaginated(w, users, utils.NewPagination(page, limit, total))
}

// GetUser récupère un utilisateur par ID
func GetUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["id"]

	user, err := fetchUserByID(context.Background(), userID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	utils.Success(w, user)
}

type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Ward   *string `json:"ward,omitempty"`
}

// UpdateUser met à jour le profil (propriétaire ou admin)
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["id"]

	if !middleware.IsOwnerOrAdmin(r, userID) {
		utils.ErrorSimple(w, http.StatusForbidden, "not allowed to update this user")
		return
	}

	var req UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	// Instantané avant modification pour l'audit
	before, err := fetchUserByID(ctx, userID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	sets := []string{"updated_at=NOW()", "updated_by=$1"}
	args := []interface{}{actor.ID}
	idx := 2

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.ValidationError(w, "name cannot be empty")
			return
		}
		sets = append(sets, "name=$"+strconv.Itoa(idx))
		args = append(args, name)
		idx++
	}
	if req.Avatar != nil {
		sets = append(sets, "avatar=$"+strconv.Itoa(idx))
		args = append(args, *req.Avatar)
		idx++
	}
	if req.Ward != nil {
		sets = append(sets, "ward=NULLIF($"+strconv.Itoa(idx)+", '')")
		args = append(args, *req.Ward)
		idx++
	}

	args = append(args, userID)
	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id=$` + strconv.Itoa(idx) + ` AND deleted_at IS NULL`

	res, err := database.DB.Exec(ctx, query, args...)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update user", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	after, err := fetchUserByID(ctx, userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not reload user", err)
		return
	}

	utils.LogAudit(ctx, actor.ID, "user.update", "user", userID, before, after)
	utils.Success(w, after)
}

// DeleteUser supprime un utilisateur (soft delete, propriétaire ou admin)
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["id"]

	if !middleware.IsOwnerOrAdmin(r, userID) {
		utils.ErrorSimple(w, http.StatusForbidden, "not allowed to delete this user")
		return
	}

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	before, err := fetchUserByID(ctx, userID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	res, err := database.DB.Exec(ctx,
		`UPDATE users SET deleted_at=NOW(), deleted_by=$2 WHERE id=$1 AND deleted_at IS NULL`,
		userID, actor.ID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete user", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	// Les sessions actives sont coupées immédiatement
	if _, err := database.DB.Exec(ctx,
		`UPDATE sessions SET is_active=false, deleted_at=NOW(), deleted_by=$2
		 WHERE user_id=$1 AND is_active=true AND deleted_at IS NULL`,
		userID, actor.ID,
	); err != nil {
		utils.LogWarning("could not invalidate sessions for deleted user %s: %v", userID, err)
	}

	utils.LogAudit(ctx, actor.ID, "user.delete", "user", userID, before, nil)
	utils.Success(w, map[string]bool{"success": true})
}

// UploadAvatar upload un avatar vers Cloudinary et met à jour le profil
func UploadAvatar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["id"]

	if !middleware.IsOwnerOrAdmin(r, userID) {
		utils.ErrorSimple(w, http.StatusForbidden, "not allowed to update this avatar")
		return
	}

	// Limiter la taille du fichier à 10MB
	r.ParseMultipartForm(10 << 20)

	file, fileHeader, err := r.FormFile("avatar")
	if err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	// Vérifier le type de fichier
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/jpg" {
		utils.ErrorSimple(w, http.StatusBadRequest, "only JPEG and PNG images are allowed")
		return
	}

	if cloudinarySvc == nil {
		utils.ErrorSimple(w, http.StatusServiceUnavailable, "avatar upload is not configured")
		return
	}

	ctx := context.Background()
	avatarURL, err := cloudinarySvc.UploadAvatar(ctx, file, userID, fileHeader.Filename)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not upload avatar", err)
		return
	}

	if _, err := database.DB.Exec(ctx,
		`UPDATE users SET avatar=$1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL`,
		avatarURL, userID,
	); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save avatar", err)
		return
	}

	utils.Success(w, map[string]string{"avatar": avatarURL})
}
