package api

import (
	"net/http"

	"github.com/Zero-Print/zeroprint-sub006/internal/handler"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
)

func SetupRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.OptionalAuth)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware)
	authenticatedRoutes.Use(middleware.LoggerMiddleware)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/signup", handler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", handler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", handler.RefreshToken).Methods(http.MethodPost)
	r.HandleFunc("/auth/forgot-password", handler.ForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/auth/reset-password", handler.ResetPassword).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify-email", handler.VerifyEmail).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/auth/me", handler.Me).Methods(http.MethodGet)

	// Users
	authenticatedRoutes.HandleFunc("/users", handler.GetUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", handler.GetUser).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/users/{id}", handler.UpdateUser).Methods(http.MethodPut, http.MethodPatch)
	authenticatedRoutes.HandleFunc("/users/{id}", handler.DeleteUser).Methods(http.MethodDelete)
	authenticatedRoutes.HandleFunc("/users/{id}/avatar", handler.UploadAvatar).Methods(http.MethodPost)

	// Wallet
	authenticatedRoutes.HandleFunc("/wallet", handler.GetWallet).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/wallet/transactions", handler.GetWalletTransactions).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/wallet/daily-progress", handler.GetDailyProgress).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/wallet/earn", handler.EarnCoins).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/wallet/redeem", handler.RedeemCoins).Methods(http.MethodPost)

	// Games
	r.HandleFunc("/games", handler.GetGames).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}", handler.GetGameById).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/games", handler.CreateGame).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/games/{id}", handler.UpdateGame).Methods(http.MethodPut)
	authenticatedRoutes.HandleFunc("/games/{id}", handler.DeleteGame).Methods(http.MethodDelete)
	authenticatedRoutes.HandleFunc("/games/{id}/complete", handler.CompleteGame).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/scores", handler.GetGameScores).Methods(http.MethodGet)
	r.HandleFunc("/users/{userId}/scores", handler.GetUserScores).Methods(http.MethodGet)

	// Leaderboards
	r.HandleFunc("/leaderboards/global", handler.GetGlobalLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/leaderboards/games/{gameId}", handler.GetGameLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/leaderboards/categories/{category}", handler.GetCategoryLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/leaderboards/global/users/{userId}", handler.GetUserRank).Methods(http.MethodGet)
	r.HandleFunc("/leaderboards/global/users/{userId}/nearby", handler.GetNearbyUsers).Methods(http.MethodGet)

	// Trackers
	authenticatedRoutes.HandleFunc("/trackers/carbon", handler.CreateCarbonLog).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/trackers/carbon", handler.GetCarbonLogs).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/trackers/mood", handler.CreateMoodLog).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/trackers/mood", handler.GetMoodLogs).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/trackers/animal-welfare", handler.CreateAnimalWelfareLog).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/trackers/animal-welfare", handler.GetAnimalWelfareLogs).Methods(http.MethodGet)

	// Rewards
	r.HandleFunc("/rewards", handler.GetRewards).Methods(http.MethodGet)
	r.HandleFunc("/rewards/{id}", handler.GetRewardById).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/rewards", handler.CreateReward).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/rewards/{id}", handler.UpdateReward).Methods(http.MethodPut)
	authenticatedRoutes.HandleFunc("/rewards/{id}", handler.DeleteReward).Methods(http.MethodDelete)
	authenticatedRoutes.HandleFunc("/rewards/{id}/image", handler.UploadRewardImage).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/rewards/{id}/redeem", handler.RedeemReward).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/redemptions", handler.GetRedemptions).Methods(http.MethodGet)

	// Subscriptions
	r.HandleFunc("/plans", handler.GetPlans).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/subscriptions", handler.CreateSubscription).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/subscriptions/me", handler.GetMySubscription).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/subscriptions/{id}/cancel", handler.CancelSubscription).Methods(http.MethodPost)

	// Webhooks (signés, jamais derrière l'auth utilisateur)
	r.HandleFunc("/webhooks/razorpay", handler.RazorpayWebhook).Methods(http.MethodPost)

	// Admin
	authenticatedRoutes.HandleFunc("/admin/dashboard", handler.GetAdminDashboard).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/users", handler.GetAdminUsers).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/wards", handler.GetWardStats).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/audit-logs", handler.GetAuditLogs).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/activity-logs", handler.GetActivityLogs).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/admin/export/{entity}", handler.ExportCSV).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
