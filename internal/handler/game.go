package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/scanner"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

// GetGames récupère le catalogue des mini-jeux (filtres: category, status)
func GetGames(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := query.Get("category")
	status := query.Get("status")
	if status == "" {
		status = "active"
	}

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	where := `WHERE deleted_at IS NULL AND status=$1`
	args := []interface{}{status}
	if category != "" {
		where += ` AND category=$2`
		args = append(args, category)
	}

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM games `+where, args...,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count games", err)
		return
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := database.DB.Query(ctx,
		`SELECT id, title, description, game_type, category, base_coins, max_score, tags, status,
		        created_at, updated_at, created_by, updated_by
		 FROM games `+where+`
		 ORDER BY created_at DESC
		 LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query games", err)
		return
	}
	defer rows.Close()

	games := []*model.Game{}
	for rows.Next() {
		game, err := scanner.ScanGame(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan game", err)
			return
		}
		games = append(games, game)
	}

	utils.SuccessPaginated(w, games, utils.NewPagination(page, limit, total))
}

// GetGameById récupère un mini-jeu par ID
func GetGameById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	game, err := fetchGameByID(context.Background(), gameID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "game not found")
		return
	}

	utils.Success(w, game)
}

type GameRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	GameType    string   `json:"gameType"`
	Category    string   `json:"category"`
	BaseCoins   int      `json:"baseCoins"`
	MaxScore    int      `json:"maxScore"`
	Tags        []string `json:"tags,omitempty"`
}

// CreateGame crée un mini-jeu (admin)
func CreateGame(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	var req GameRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.GameType == "" || req.Category == "" {
		utils.ValidationError(w, "title, gameType and category are required")
		return
	}
	if req.BaseCoins <= 0 || req.MaxScore <= 0 {
		utils.ValidationError(w, "baseCoins and maxScore must be positive")
		return
	}

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	var gameID string
	err := database.DB.QueryRow(ctx,
		`INSERT INTO games (title, description, game_type, category, base_coins, max_score, tags, created_by)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		req.Title, req.Description, req.GameType, req.Category,
		req.BaseCoins, req.MaxScore, pq.Array(req.Tags), actor.ID,
	).Scan(&gameID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create game", err)
		return
	}

	game, err := fetchGameByID(ctx, gameID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not reload game", err)
		return
	}

	utils.LogAudit(ctx, actor.ID, "game.create", "game", gameID, nil, game)
	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: game})
}

// UpdateGame met à jour un mini-jeu (admin)
func UpdateGame(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	vars := mux.Vars(r)
	gameID := vars["id"]

	var req GameRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	before, err := fetchGameByID(ctx, gameID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "game not found")
		return
	}

	res, err := database.DB.Exec(ctx,
		`UPDATE games
		 SET title=$1, description=NULLIF($2, ''), game_type=$3, category=$4,
		     base_coins=$5, max_score=$6, tags=$7, updated_at=NOW(), updated_by=$8
		 WHERE id=$9 AND deleted_at IS NULL`,
		req.Title, req.Description, req.GameType, req.Category,
		req.BaseCoins, req.MaxScore, pq.Array(req.Tags), actor.ID, gameID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update game", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "game not found")
		return
	}

	after, err := fetchGameByID(ctx, gameID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not reload game", err)
		return
	}

	utils.LogAudit(ctx, actor.ID, "game.update", "game", gameID, before, after)
	utils.Success(w, after)
}

// DeleteGame archive un mini-jeu (admin, soft delete)
func DeleteGame(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	vars := mux.Vars(r)
	gameID := vars["id"]

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	before, err := fetchGameByID(ctx, gameID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "game not found")
		return
	}

	res, err := database.DB.Exec(ctx,
		`UPDATE games SET status='archived', deleted_at=NOW(), deleted_by=$2
		 WHERE id=$1 AND deleted_at IS NULL`,
		gameID, actor.ID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete game", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "game not found")
		return
	}

	utils.LogAudit(ctx, actor.ID, "game.delete", "game", gameID, before, nil)
	utils.Success(w, map[string]bool{"success": true})
}

// CompleteGame enregistre une fin de partie: calcul des coins par paliers,
// plafond journalier, garde anti-doublon, puis mises à jour best-effort
// (classements, eco score, journal d'activité). Les étapes best-effort ne
// font jamais échouer la complétion elle-même.
func CompleteGame(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	vars := mux.Vars(r)
	gameID := vars["id"]

	var req model.CompleteGameRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Score < 0 {
		utils.ValidationError(w, "score cannot be negative")
		return
	}

	ctx := context.Background()

	game, err := fetchGameByID(ctx, gameID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "game not found")
		return
	}
	if game.Status != "active" {
		utils.ErrorSimple(w, http.StatusConflict, "game is not active")
		return
	}

	maxScore := game.MaxScore
	if req.MaxScore > 0 {
		maxScore = req.MaxScore
	}
	if req.AttemptCount <= 0 {
		req.AttemptCount = 1
	}

	percentage := utils.CalculatePercentage(req.Score, maxScore)
	coins := utils.CalculateCoinsEarned(game.BaseCoins, percentage)

	// Garde anti-doublon: une complétion du même jeu dans la fenêtre de
	// 60 minutes enregistre le score mais ne rapporte rien
	duplicate := utils.IsRecentDuplicate(ctx, user.ID, gameID)
	award := coins
	if duplicate {
		award = 0
	}

	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = []byte("null")
	}

	var gameScore model.GameScore
	saveScore := func() error {
		return database.DB.QueryRow(ctx,
			`INSERT INTO game_scores
				(user_id, game_id, game_type, score, max_score, percentage, coins_earned,
				 attempt_count, duration_seconds, metadata)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id, created_at`,
			user.ID, gameID, game.GameType, req.Score, maxScore, percentage, award,
			req.AttemptCount, req.DurationSeconds, metadata,
		).Scan(&gameScore.ID, &gameScore.CreatedAt)
	}
	var credit func() (*utils.EarnResult, error)
	if !duplicate && award > 0 {
		credit = func() (*utils.EarnResult, error) {
			return utils.CreditCoinsWithCap(ctx, user.ID, award, "game", gameID)
		}
	}

	earn, creditErr, saveErr := saveThenCredit(saveScore, credit)
	if saveErr != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save game score", saveErr)
		return
	}

	gameScore.UserID = user.ID
	gameScore.GameID = gameID
	gameScore.GameType = game.GameType
	gameScore.Score = req.Score
	gameScore.MaxScore = maxScore
	gameScore.Percentage = percentage
	gameScore.CoinsEarned = award
	gameScore.AttemptCount = req.AttemptCount
	gameScore.DurationSeconds = req.DurationSeconds
	gameScore.Metadata = req.Metadata

	coinsResp := model.CoinsResponse{Success: true, Duplicate: duplicate}
	awarded := 0
	switch {
	case duplicate:
		coinsResp.Message = "Duplicate completion, no coins awarded"
	case creditErr != nil:
		// Le score reste enregistré; le gain est perdu mais signalé
		utils.LogError("could not credit coins for user=%s game=%s: %v", user.ID, gameID, creditErr)
		coinsResp.Success = false
		coinsResp.Message = "could not credit coins"
	case earn != nil:
		awarded = earn.Accepted
		coinsResp.CoinsEarned = earn.Accepted
		coinsResp.NewBalance = earn.NewBalance
		coinsResp.LimitReached = earn.LimitReached
		if earn.LimitReached {
			coinsResp.Message = "Daily coin limit reached"
		}
	default:
		coinsResp.Message = "Score below reward threshold"
	}
	if earn == nil {
		if balance, balErr := utils.GetWalletBalance(ctx, user.ID); balErr == nil {
			coinsResp.NewBalance = balance
		}
	}

	// Étapes annexes: chacune échoue indépendamment sans bloquer la réponse
	lbUpdate := updateLeaderboards(ctx, user.ID, gameID, game.Category, awarded)

	bestEffort("eco score", func() error {
		_, err := database.DB.Exec(ctx,
			`UPDATE users SET eco_score = eco_score + $2 WHERE id=$1 AND deleted_at IS NULL`,
			user.ID, awarded,
		)
		return err
	})

	bestEffort("activity log", func() error {
		utils.LogActivity(ctx, user.ID, "game.complete",
			fmt.Sprintf("game=%s score=%d%% coins=%d", game.Title, percentage, awarded))
		return nil
	})

	balanceBefore, balanceAfter := completionAuditBalances(earn, coinsResp.NewBalance)
	bestEffort("audit log", func() error {
		utils.LogAudit(ctx, user.ID, "game.complete", "wallet", user.ID,
			map[string]interface{}{"balance": balanceBefore},
			map[string]interface{}{"balance": balanceAfter, "coinsEarned": awarded},
		)
		return nil
	})

	utils.Success(w, model.CompleteGameResult{
		GameScore:         &gameScore,
		CoinsResponse:     coinsResp,
		LeaderboardUpdate: lbUpdate,
	})
}

// saveThenCredit exécute les deux étapes critiques d'une complétion dans
// cet ordre: le score est écrit d'abord, le crédit part ensuite. Un crédit
// ne peut ainsi jamais être validé sans ligne de score, et une nouvelle
// tentative après échec retombe sur la garde anti-doublon qui lit
// game_scores. L'échec du crédit est rapporté séparément: le score déjà
// enregistré est conservé.
func saveThenCredit(saveScore func() error, credit func() (*utils.EarnResult, error)) (earn *utils.EarnResult, creditErr, saveErr error) {
	if saveErr = saveScore(); saveErr != nil {
		return nil, nil, saveErr
	}
	if credit == nil {
		return nil, nil, nil
	}
	earn, creditErr = credit()
	return earn, creditErr, nil
}

// completionAuditBalances calcule les soldes avant/après pour l'entrée
// d'audit d'une complétion. Sans crédit, les deux valent le solde courant.
func completionAuditBalances(earn *utils.EarnResult, current int64) (before, after int64) {
	if earn == nil {
		return current, current
	}
	return earn.NewBalance - int64(earn.Accepted), earn.NewBalance
}

// bestEffort exécute une étape annexe en avalant son erreur
func bestEffort(step string, fn func() error) bool {
	if err := fn(); err != nil {
		utils.LogWarning("best-effort step %q failed: %v", step, err)
		return false
	}
	return true
}

// updateLeaderboards incrémente les trois portées de classement.
// Chaque portée est indépendante: l'échec de l'une n'empêche pas les autres.
func updateLeaderboards(ctx context.Context, userID, gameID, category string, coins int) model.LeaderboardUpdate {
	if coins <= 0 {
		return model.LeaderboardUpdate{}
	}

	upsert := func(scope, scopeKey string) error {
		_, err := database.DB.Exec(ctx,
			`INSERT INTO leaderboard_entries (scope, scope_key, user_id, score, updated_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (scope, scope_key, user_id)
			 DO UPDATE SET score = leaderboard_entries.score + $4, updated_at = NOW()`,
			scope, scopeKey, userID, coins,
		)
		return err
	}

	var update model.LeaderboardUpdate
	update.Global = bestEffort("global leaderboard", func() error {
		return upsert(string(model.ScopeGlobal), "global")
	})
	update.Game = bestEffort("game leaderboard", func() error {
		return upsert(string(model.ScopeGame), gameID)
	})
	update.Category = bestEffort("category leaderboard", func() error {
		return upsert(string(model.ScopeCategory), category)
	})
	return update
}

// GetGameScores récupère les scores d'un mini-jeu (paginé)
func GetGameScores(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM game_scores WHERE game_id=$1`, gameID,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count scores", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, user_id, game_id, game_type, score, max_score, percentage, coins_earned,
		        attempt_count, duration_seconds, metadata, created_at
		 FROM game_scores
		 WHERE game_id=$1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		gameID, limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query scores", err)
		return
	}
	defer rows.Close()

	scores := []*model.GameScore{}
	for rows.Next() {
		score, err := scanner.ScanGameScore(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan score", err)
			return
		}
		scores = append(scores, score)
	}

	utils.SuccessPaginated(w, scores, utils.NewPagination(page, limit, total))
}

// GetUserScores récupère les scores d'un utilisateur (paginé)
func GetUserScores(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM game_scores WHERE user_id=$1`, userID,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count scores", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, user_id, game_id, game_type, score, max_score, percentage, coins_earned,
		        attempt_count, duration_seconds, metadata, created_at
		 FROM game_scores
		 WHERE user_id=$1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query scores", err)
		return
	}
	defer rows.Close()

	scores := []*model.GameScore{}
	for rows.Next() {
		score, err := scanner.ScanGameScore(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan score", err)
			return
		}
		scores = append(scores, score)
	}

	utils.SuccessPaginated(w, scores, utils.NewPagination(page, limit, total))
}

// fetchGameByID charge un mini-jeu par ID
func fetchGameByID(ctx context.Context, gameID string) (*model.Game, error) {
	row := database.DB.QueryRow(ctx,
		`SELECT id, title, description, game_type, category, base_coins, max_score, tags, status,
		        created_at, updated_at, created_by, updated_by
		 FROM games WHERE id=$1 AND deleted_at IS NULL`,
		gameID,
	)
	return scanner.ScanGame(row)
}
