package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/scanner"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/google/uuid"

	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Ward     string `json:"ward,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" {
		utils.ValidationError(w, "name is required")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.ValidationError(w, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		utils.ValidationError(w, "password must be at least 8 characters")
		return
	}

	ctx := context.Background()

	// Vérifier que l'email n'est pas déjà pris
	var exists bool
	if err := database.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email=$1 AND deleted_at IS NULL)`,
		req.Email,
	).Scan(&exists); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not check email", err)
		return
	}
	if exists {
		utils.ErrorSimple(w, http.StatusConflict, "email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not hash password", err)
		return
	}

	avatar := utils.DefaultAvatarURL(req.Name)

	var user model.UserProfile
	err = database.DB.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, avatar, ward, provider)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), 'email')
		 RETURNING id, name, email, join_date, created_at, updated_at`,
		req.Name, req.Email, string(hashed), avatar, req.Ward,
	).Scan(&user.ID, &user.Name, &user.Email, &user.JoinDate, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create user", err)
		return
	}
	user.Avatar = avatar
	user.Ward = req.Ward
	user.Provider = "email"

	// Portefeuille créé immédiatement, solde 0
	if err := utils.EnsureWallet(ctx, user.ID); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create wallet", err)
		return
	}

	ip, userAgent := utils.ExtractIPAndUserAgent(r)
	token, err := utils.CreateSession(ctx, user.ID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}
	refreshToken, err := utils.CreateRefreshToken(ctx, user.ID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create refresh token", err)
		return
	}

	utils.LogActivity(ctx, user.ID, "signup", "new account: "+user.Email)

	// Emails de bienvenue et de vérification, best-effort
	if emailSvc != nil {
		if err := emailSvc.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			utils.LogWarning("could not send welcome email to %s: %v", user.Email, err)
		}
		verifyToken := uuid.NewString()
		_, insErr := database.DB.Exec(ctx,
			`INSERT INTO email_verifications (user_id, token_hash, expires_at)
			 VALUES ($1, $2, $3)`,
			user.ID, utils.HashToken(verifyToken), time.Now().Add(24*time.Hour),
		)
		if insErr != nil {
			utils.LogWarning("could not create verification token for %s: %v", user.Email, insErr)
		} else if err := emailSvc.SendVerificationEmail(ctx, user.Email, user.Name, verifyToken); err != nil {
			utils.LogWarning("could not send verification email to %s: %v", user.Email, err)
		}
	}

	utils.JSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"user":         user,
			"token":        token,
			"refreshToken": refreshToken,
		},
	})
}

// Register (alias de Signup pour correspondre à l'API du front)
func Register(w http.ResponseWriter, r *http.Request) {
	Signup(w, r)
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx := context.Background()
	var userID, hashedPassword string

	err := database.DB.QueryRow(ctx,
		`SELECT id, password_hash FROM users WHERE email=$1 AND deleted_at IS NULL`,
		req.Email,
	).Scan(&userID, &hashedPassword)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	user, err := fetchUserByID(ctx, userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load user", err)
		return
	}

	ip, userAgent := utils.ExtractIPAndUserAgent(r)
	token, err := utils.CreateSession(ctx, user.ID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}
	refreshToken, err := utils.CreateRefreshToken(ctx, user.ID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create refresh token", err)
		return
	}

	utils.LogActivity(ctx, user.ID, "login", "")

	utils.Success(w, map[string]interface{}{
		"user":         user,
		"token":        token,
		"refreshToken": refreshToken,
	})
}

func Logout(w http.ResponseWriter, r *http.Request) {
	token, err := utils.GetToken(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "missing token")
		return
	}

	ctx := context.Background()
	if err := utils.InvalidateSession(ctx, token); err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "session not found or already logged out")
		return
	}

	if user, err := middleware.GetUserFromContext(r); err == nil {
		utils.LogActivity(ctx, user.ID, "logout", "")
	}

	utils.Success(w, map[string]bool{"success": true})
}

// RefreshToken échange un refresh token valide contre une nouvelle
// session et un nouveau refresh token (rotation)
func RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	ctx := context.Background()
	userID, err := utils.ValidateRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	// Rotation: l'ancien token est révoqué avant d'en émettre un nouveau
	if err := utils.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not rotate refresh token", err)
		return
	}

	ip, userAgent := utils.ExtractIPAndUserAgent(r)
	token, err := utils.CreateSession(ctx, userID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}
	newRefreshToken, err := utils.CreateRefreshToken(ctx, userID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create refresh token", err)
		return
	}

	utils.Success(w, map[string]string{
		"token":        token,
		"refreshToken": newRefreshToken,
	})
}

// ForgotPassword crée un token de réinitialisation et l'envoie par email.
// La réponse est identique que l'email existe ou non pour ne pas permettre
// l'énumération des comptes.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil || req.Email == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "email is required")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx := context.Background()
	var userID, userName string
	err := database.DB.QueryRow(ctx,
		`SELECT id, name FROM users WHERE email=$1 AND deleted_at IS NULL`,
		req.Email,
	).Scan(&userID, &userName)
	if err == nil {
		resetToken := uuid.NewString()
		_, insErr := database.DB.Exec(ctx,
			`INSERT INTO password_resets (user_id, token_hash, expires_at)
			 VALUES ($1, $2, $3)`,
			userID, utils.HashToken(resetToken), time.Now().Add(1*time.Hour),
		)
		if insErr != nil {
			utils.Error(w, http.StatusInternalServerError, "could not create reset token", insErr)
			return
		}

		if emailSvc != nil {
			if err := emailSvc.SendPasswordResetEmail(ctx, req.Email, userName, resetToken); err != nil {
				utils.LogWarning("could not send password reset email to %s: %v", req.Email, err)
			}
		}
		utils.LogActivity(ctx, userID, "forgot_password", "")
	}

	utils.Message(w, "If the email exists, a reset link has been sent")
}

// ResetPassword consomme un token de réinitialisation et change le mot de passe
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil || req.Token == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "token and newPassword are required")
		return
	}
	if len(req.NewPassword) < 8 {
		utils.ValidationError(w, "password must be at least 8 characters")
		return
	}

	ctx := context.Background()
	var resetID, userID string
	err := database.DB.QueryRow(ctx,
		`SELECT id, user_id FROM password_resets
		 WHERE token_hash=$1 AND used_at IS NULL AND expires_at > NOW()`,
		utils.HashToken(req.Token),
	).Scan(&resetID, &userID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid or expired reset token")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not hash password", err)
		return
	}

	if _, err := database.DB.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL`,
		string(hashed), userID,
	); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update password", err)
		return
	}

	if _, err := database.DB.Exec(ctx,
		`UPDATE password_resets SET used_at=NOW() WHERE id=$1`, resetID,
	); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not consume reset token", err)
		return
	}

	// Toutes les sessions et refresh tokens existants sont invalidés
	if _, err := database.DB.Exec(ctx,
		`UPDATE sessions SET is_active=false, deleted_at=NOW(), deleted_by=$1
		 WHERE user_id=$1 AND is_active=true AND deleted_at IS NULL`,
		userID,
	); err != nil {
		utils.LogWarning("could not invalidate sessions for user %s: %v", userID, err)
	}
	if err := utils.RevokeAllUserRefreshTokens(ctx, userID); err != nil {
		utils.LogWarning("could not revoke refresh tokens for user %s: %v", userID, err)
	}

	utils.LogActivity(ctx, userID, "reset_password", "")
	utils.Message(w, "Password updated successfully")
}

// VerifyEmail consomme un token de vérification et marque l'email comme vérifié
func VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil || req.Token == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "token is required")
		return
	}

	ctx := context.Background()
	var verificationID, userID string
	err := database.DB.QueryRow(ctx,
		`SELECT id, user_id FROM email_verifications
		 WHERE token_hash=$1 AND used_at IS NULL AND expires_at > NOW()`,
		utils.HashToken(req.Token),
	).Scan(&verificationID, &userID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid or expired verification token")
		return
	}

	if _, err := database.DB.Exec(ctx,
		`UPDATE users SET email_verified=true, updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`,
		userID,
	); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not verify email", err)
		return
	}
	if _, err := database.DB.Exec(ctx,
		`UPDATE email_verifications SET used_at=NOW() WHERE id=$1`, verificationID,
	); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not consume verification token", err)
		return
	}

	utils.LogActivity(ctx, userID, "verify_email", "")
	utils.Message(w, "Email verified successfully")
}

// Me retourne le profil de l'utilisateur connecté
func Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	utils.Success(w, user)
}

// fetchUserByID charge un profil complet par ID
func fetchUserByID(ctx context.Context, userID string) (*model.UserProfile, error) {
	row := database.DB.QueryRow(ctx,
		`SELECT id, name, email, avatar, ward, provider, eco_score, is_admin, email_verified,
		        join_date, created_at, updated_at, created_by, updated_by
		 FROM users WHERE id=$1 AND deleted_at IS NULL`,
		userID,
	)
	return scanner.ScanUserProfile(row)
}
