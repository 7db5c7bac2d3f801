package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/scanner"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
)

// Facteurs d'émission par type d'action (kg de CO2 évité par unité)
var carbonFactors = map[string]float64{
	"transport": 0.15, // par km à vélo/marche au lieu de voiture
	"energy":    0.5,  // par kWh économisé
	"waste":     0.7,  // par kg recyclé
	"water":     0.3,  // par 100L économisés
}

// Coins fixes par entrée de tracker (le plafond journalier s'applique)
const (
	moodTrackerCoins   = 5
	animalTrackerCoins = 15
	carbonCoinsPerKg   = 10
	carbonCoinsMax     = 50
)

type CarbonLogRequest struct {
	ActionType string  `json:"actionType"`
	Value      float64 `json:"value"`
	Details    string  `json:"details,omitempty"`
}

// carbonReward convertit une valeur d'action en CO2 évité (kg) et en coins,
// plafonnés par entrée. ok est faux si le type d'action est inconnu.
func carbonReward(actionType string, value float64) (co2Saved float64, coins int, ok bool) {
	factor, found := carbonFactors[actionType]
	if !found {
		return 0, 0, false
	}
	co2Saved = value * factor
	coins = int(co2Saved * carbonCoinsPerKg)
	if coins > carbonCoinsMax {
		coins = carbonCoinsMax
	}
	return co2Saved, coins, true
}

// CreateCarbonLog enregistre une action environnementale et crédite des
// coins proportionnels au CO2 évité
func CreateCarbonLog(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CarbonLogRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Value <= 0 {
		utils.ValidationError(w, "value must be positive")
		return
	}
	co2Saved, coins, ok := carbonReward(req.ActionType, req.Value)
	if !ok {
		utils.ValidationError(w, "actionType must be one of: transport, energy, waste, water")
		return
	}

	ctx := context.Background()

	var log model.CarbonLog
	err = database.DB.QueryRow(ctx,
		`INSERT INTO carbon_logs (user_id, action_type, value, co2_saved_kg, coins_earned, details)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		 RETURNING id, created_at`,
		user.ID, req.ActionType, req.Value, co2Saved, coins, req.Details,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save carbon log", err)
		return
	}

	log.UserID = user.ID
	log.ActionType = req.ActionType
	log.Value = req.Value
	log.CO2SavedKg = co2Saved
	log.CoinsEarned = coins
	log.Details = req.Details

	var earn *utils.EarnResult
	if coins > 0 {
		earn, err = utils.CreditCoinsWithCap(ctx, user.ID, coins, "tracker_carbon", log.ID)
		if err != nil {
			utils.LogError("could not credit carbon coins for user=%s: %v", user.ID, err)
		}
	}

	utils.LogActivity(ctx, user.ID, "tracker.carbon",
		fmt.Sprintf("action=%s co2=%.2fkg coins=%d", req.ActionType, co2Saved, coins))

	utils.JSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"log":   log,
			"coins": earn,
		},
	})
}

// GetCarbonLogs historique carbone de l'utilisateur (paginé)
func GetCarbonLogs(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM carbon_logs WHERE user_id=$1`, user.ID,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count carbon logs", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, user_id, action_type, value, co2_saved_kg, coins_earned, details, created_at
		 FROM carbon_logs WHERE user_id=$1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		user.ID, limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query carbon logs", err)
		return
	}
	defer rows.Close()

	logs := []*model.CarbonLog{}
	for rows.Next() {
		log, err := scanner.ScanCarbonLog(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan carbon log", err)
			return
		}
		logs = append(logs, log)
	}

	utils.SuccessPaginated(w, logs, utils.NewPagination(page, limit, total))
}

type MoodLogRequest struct {
	Mood  string `json:"mood"`
	Score int    `json:"score"`
	Note  string `json:"note,omitempty"`
}

var validMoods = map[string]bool{
	"great": true, "good": true, "okay": true, "low": true, "bad": true,
}

// CreateMoodLog enregistre une humeur et crédite quelques coins
func CreateMoodLog(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req MoodLogRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !validMoods[req.Mood] {
		utils.ValidationError(w, "mood must be one of: great, good, okay, low, bad")
		return
	}
	if req.Score < 1 || req.Score > 10 {
		utils.ValidationError(w, "score must be between 1 and 10")
		return
	}

	ctx := context.Background()

	var log model.MoodLog
	err = database.DB.QueryRow(ctx,
		`INSERT INTO mood_logs (user_id, mood, score, note, coins_earned)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		 RETURNING id, created_at`,
		user.ID, req.Mood, req.Score, req.Note, moodTrackerCoins,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save mood log", err)
		return
	}

	log.UserID = user.ID
	log.Mood = req.Mood
	log.Score = req.Score
	log.Note = req.Note
	log.CoinsEarned = moodTrackerCoins

	earn, err := utils.CreditCoinsWithCap(ctx, user.ID, moodTrackerCoins, "tracker_mood", log.ID)
	if err != nil {
		utils.LogError("could not credit mood coins for user=%s: %v", user.ID, err)
	}

	utils.LogActivity(ctx, user.ID, "tracker.mood", "mood="+req.Mood)

	utils.JSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"log":   log,
			"coins": earn,
		},
	})
}

// GetMoodLogs historique humeur de l'utilisateur (paginé)
func GetMoodLogs(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM mood_logs WHERE user_id=$1`, user.ID,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count mood logs", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, user_id, mood, score, note, coins_earned, created_at
		 FROM mood_logs WHERE user_id=$1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		user.ID, limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query mood logs", err)
		return
	}
	defer rows.Close()

	logs := []*model.MoodLog{}
	for rows.Next() {
		log, err := scanner.ScanMoodLog(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan mood log", err)
			return
		}
		logs = append(logs, log)
	}

	utils.SuccessPaginated(w, logs, utils.NewPagination(page, limit, total))
}

type AnimalWelfareLogRequest struct {
	ActionType  string `json:"actionType"`
	Description string `json:"description,omitempty"`
}

var validAnimalActions = map[string]bool{
	"feeding": true, "rescue": true, "adoption": true, "report": true,
}

// CreateAnimalWelfareLog enregistre une action de bien-être animal
func CreateAnimalWelfareLog(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req AnimalWelfareLogRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !validAnimalActions[req.ActionType] {
		utils.ValidationError(w, "actionType must be one of: feeding, rescue, adoption, report")
		return
	}

	ctx := context.Background()

	var log model.AnimalWelfareLog
	err = database.DB.QueryRow(ctx,
		`INSERT INTO animal_welfare_logs (user_id, action_type, description, coins_earned)
		 VALUES ($1, $2, NULLIF($3, ''), $4)
		 RETURNING id, created_at`,
		user.ID, req.ActionType, req.Description, animalTrackerCoins,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save animal welfare log", err)
		return
	}

	log.UserID = user.ID
	log.ActionType = req.ActionType
	log.Description = req.Description
	log.CoinsEarned = animalTrackerCoins

	earn, err := utils.CreditCoinsWithCap(ctx, user.ID, animalTrackerCoins, "tracker_animal", log.ID)
	if err != nil {
		utils.LogError("could not credit animal welfare coins for user=%s: %v", user.ID, err)
	}

	utils.LogActivity(ctx, user.ID, "tracker.animal_welfare", "action="+req.ActionType)

	utils.JSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"log":   log,
			"coins": earn,
		},
	})
}

// GetAnimalWelfareLogs historique bien-être animal (paginé)
func GetAnimalWelfareLogs(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM animal_welfare_logs WHERE user_id=$1`, user.ID,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count animal welfare logs", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, user_id, action_type, description, coins_earned, created_at
		 FROM animal_welfare_logs WHERE user_id=$1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		user.ID, limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query animal welfare logs", err)
		return
	}
	defer rows.Close()

	logs := []*model.AnimalWelfareLog{}
	for rows.Next() {
		log, err := scanner.ScanAnimalWelfareLog(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan animal welfare log", err)
			return
		}
		logs = append(logs, log)
	}

	utils.SuccessPaginated(w, logs, utils.NewPagination(page, limit, total))
}
