package handler

import (
	"net/http"

	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "ZeroPrint API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"auth": []map[string]string{
				{"method": "POST", "path": "/auth/signup", "description": "Inscription utilisateur"},
				{"method": "POST", "path": "/auth/register", "description": "Inscription utilisateur (alias)"},
				{"method": "POST", "path": "/auth/login", "description": "Connexion utilisateur"},
				{"method": "POST", "path": "/auth/logout", "description": "Déconnexion utilisateur"},
				{"method": "POST", "path": "/auth/refresh", "description": "Renouveler le token de session"},
				{"method": "POST", "path": "/auth/forgot-password", "description": "Demander un reset de mot de passe"},
				{"method": "POST", "path": "/auth/reset-password", "description": "Réinitialiser le mot de passe"},
			{"method": "POST", "path": "/auth/verify-email", "description": "Vérifier l'adresse email"},
				{"method": "GET", "path": "/auth/me", "description": "Profil de l'utilisateur connecté"},
			},
			"users": []map[string]string{
				{"method": "GET", "path": "/users", "description": "Récupérer tous les utilisateurs (admin)"},
				{"method": "GET", "path": "/users/{id}", "description": "Récupérer un utilisateur par ID"},
				{"method": "PUT", "path": "/users/{id}", "description": "Mettre à jour un utilisateur"},
				{"method": "DELETE", "path": "/users/{id}", "description": "Supprimer un utilisateur (soft delete)"},
				{"method": "POST", "path": "/users/{id}/avatar", "description": "Upload avatar utilisateur"},
			},
			"wallet": []map[string]string{
				{"method": "GET", "path": "/wallet", "description": "Solde HealCoins de l'utilisateur"},
				{"method": "GET", "path": "/wallet/transactions", "description": "Historique des transactions (paginé)"},
				{"method": "GET", "path": "/wallet/daily-progress", "description": "Progression vers le plafond journalier"},
				{"method": "POST", "path": "/wallet/earn", "description": "Crédit manuel de HealCoins (admin)"},
			{"method": "POST", "path": "/wallet/redeem", "description": "Débit de HealCoins du portefeuille"},
			},
			"games": []map[string]string{
				{"method": "GET", "path": "/games", "description": "Catalogue des mini-jeux"},
				{"method": "GET", "path": "/games/{id}", "description": "Détail d'un mini-jeu"},
				{"method": "POST", "path": "/games", "description": "Créer un mini-jeu (admin)"},
				{"method": "PUT", "path": "/games/{id}", "description": "Mettre à jour un mini-jeu (admin)"},
				{"method": "DELETE", "path": "/games/{id}", "description": "Archiver un mini-jeu (admin)"},
				{"method": "POST", "path": "/games/{id}/complete", "description": "Terminer une partie et gagner des coins"},
				{"method": "GET", "path": "/games/{id}/scores", "description": "Scores d'un mini-jeu (paginé)"},
				{"method": "GET", "path": "/users/{userId}/scores", "description": "Scores d'un utilisateur (paginé)"},
			},
			"leaderboards": []map[string]string{
				{"method": "GET", "path": "/leaderboards/global", "description": "Classement global"},
				{"method": "GET", "path": "/leaderboards/games/{gameId}", "description": "Classement d'un mini-jeu"},
				{"method": "GET", "path": "/leaderboards/categories/{category}", "description": "Classement d'une catégorie"},
				{"method": "GET", "path": "/leaderboards/global/users/{userId}", "description": "Rang global d'un utilisateur"},
				{"method": "GET", "path": "/leaderboards/global/users/{userId}/nearby", "description": "Voisins de classement"},
			},
			"trackers": []map[string]string{
				{"method": "POST", "path": "/trackers/carbon", "description": "Enregistrer une action carbone"},
				{"method": "GET", "path": "/trackers/carbon", "description": "Historique carbone (paginé)"},
				{"method": "POST", "path": "/trackers/mood", "description": "Enregistrer une humeur"},
				{"method": "GET", "path": "/trackers/mood", "description": "Historique humeur (paginé)"},
				{"method": "POST", "path": "/trackers/animal-welfare", "description": "Enregistrer une action bien-être animal"},
				{"method": "GET", "path": "/trackers/animal-welfare", "description": "Historique bien-être animal (paginé)"},
			},
			"rewards": []map[string]string{
				{"method": "GET", "path": "/rewards", "description": "Catalogue des récompenses"},
				{"method": "GET", "path": "/rewards/{id}", "description": "Détail d'une récompense"},
				{"method": "POST", "path": "/rewards", "description": "Créer une récompense (admin)"},
				{"method": "PUT", "path": "/rewards/{id}", "description": "Mettre à jour une récompense (admin)"},
				{"method": "DELETE", "path": "/rewards/{id}", "description": "Archiver une récompense (admin)"},
			{"method": "POST", "path": "/rewards/{id}/image", "description": "Téléverser l'image d'une récompense (admin)"},
				{"method": "POST", "path": "/rewards/{id}/redeem", "description": "Racheter une récompense"},
				{"method": "GET", "path": "/redemptions", "description": "Rachats de l'utilisateur (paginé)"},
			},
			"subscriptions": []map[string]string{
				{"method": "GET", "path": "/plans", "description": "Plans d'abonnement disponibles"},
				{"method": "POST", "path": "/subscriptions", "description": "Créer un abonnement"},
				{"method": "GET", "path": "/subscriptions/me", "description": "Abonnement de l'utilisateur"},
				{"method": "POST", "path": "/subscriptions/{id}/cancel", "description": "Annuler un abonnement"},
				{"method": "POST", "path": "/webhooks/razorpay", "description": "Webhook Razorpay (signé)"},
			},
			"admin": []map[string]string{
				{"method": "GET", "path": "/admin/dashboard", "description": "Statistiques du dashboard admin"},
				{"method": "GET", "path": "/admin/users", "description": "Gestion des utilisateurs (paginé)"},
				{"method": "GET", "path": "/admin/wards", "description": "Statistiques par zone administrative"},
				{"method": "GET", "path": "/admin/audit-logs", "description": "Journal d'audit (paginé)"},
				{"method": "GET", "path": "/admin/activity-logs", "description": "Journal d'activité (paginé)"},
				{"method": "GET", "path": "/admin/export/{entity}", "description": "Export CSV (users, transactions, redemptions, carbon)"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check de l'API"},
			},
		},
		"documentation": map[string]string{
			"description": "API REST pour ZeroPrint - Plateforme de durabilité gamifiée",
			"contact":     "support@zeroprint.app",
		},
	}

	utils.Success(w, routes)
}
