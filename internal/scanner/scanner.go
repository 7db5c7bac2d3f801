package scanner

import (
	"database/sql"
	"encoding/json"

	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/lib/pq"
)

// ScanUserProfile scanne une ligne SQL vers un UserProfile
// Utilise les types sql.Null* et les convertit automatiquement
func ScanUserProfile(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.UserProfile, error) {
	var user model.UserProfile
	var avatar, ward, provider sql.NullString
	var updatedBy sql.NullString

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &avatar,
		&ward, &provider, &user.EcoScore, &user.IsAdmin, &user.EmailVerified,
		&user.JoinDate, &user.CreatedAt, &user.UpdatedAt,
		&user.CreatedBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}

	// Conversions
	user.Avatar = utils.NullStringToString(avatar)
	user.Ward = utils.NullStringToString(ward)
	user.Provider = utils.NullStringToString(provider)
	user.UpdatedBy = utils.NullStringToPointer(updatedBy)

	return &user, nil
}

// ScanGame scanne une ligne SQL vers un Game
// Les tags TEXT[] passent par pq.Array
func ScanGame(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Game, error) {
	var g model.Game
	var description sql.NullString
	var updatedBy sql.NullString

	err := scanner.Scan(
		&g.ID, &g.Title, &description, &g.GameType, &g.Category,
		&g.BaseCoins, &g.MaxScore, pq.Array(&g.Tags), &g.Status,
		&g.CreatedAt, &g.UpdatedAt, &g.CreatedBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}

	g.Description = utils.NullStringToString(description)
	g.UpdatedBy = utils.NullStringToPointer(updatedBy)

	return &g, nil
}

// ScanGameScore scanne une ligne SQL vers un GameScore
func ScanGameScore(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.GameScore, error) {
	var gs model.GameScore
	var metadata []byte

	err := scanner.Scan(
		&gs.ID, &gs.UserID, &gs.GameID, &gs.GameType,
		&gs.Score, &gs.MaxScore, &gs.Percentage, &gs.CoinsEarned,
		&gs.AttemptCount, &gs.DurationSeconds, &metadata, &gs.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		gs.Metadata = json.RawMessage(metadata)
	}

	return &gs, nil
}

// ScanWalletTransaction scanne une ligne SQL vers une WalletTransaction
func ScanWalletTransaction(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.WalletTransaction, error) {
	var tx model.WalletTransaction
	var referenceID sql.NullString

	err := scanner.Scan(
		&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Source,
		&referenceID, &tx.BalanceBefore, &tx.BalanceAfter, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.ReferenceID = utils.NullStringToPointer(referenceID)

	return &tx, nil
}

// ScanReward scanne une ligne SQL vers un Reward
func ScanReward(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Reward, error) {
	var r model.Reward
	var description, imageURL sql.NullString
	var updatedBy sql.NullString

	err := scanner.Scan(
		&r.ID, &r.Title, &description, &r.CoinCost, &r.Stock,
		&imageURL, pq.Array(&r.Tags), &r.Status,
		&r.CreatedAt, &r.UpdatedAt, &r.CreatedBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}

	r.Description = utils.NullStringToString(description)
	r.ImageURL = utils.NullStringToString(imageURL)
	r.UpdatedBy = utils.NullStringToPointer(updatedBy)

	return &r, nil
}

// ScanRedemption scanne une ligne SQL vers une Redemption
func ScanRedemption(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Redemption, error) {
	var r model.Redemption

	err := scanner.Scan(
		&r.ID, &r.UserID, &r.RewardID, &r.CoinCost, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// ScanCarbonLog scanne une ligne SQL vers un CarbonLog
func ScanCarbonLog(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.CarbonLog, error) {
	var c model.CarbonLog
	var details sql.NullString

	err := scanner.Scan(
		&c.ID, &c.UserID, &c.ActionType, &c.Value, &c.CO2SavedKg,
		&c.CoinsEarned, &details, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Details = utils.NullStringToString(details)

	return &c, nil
}

// ScanMoodLog scanne une ligne SQL vers un MoodLog
func ScanMoodLog(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.MoodLog, error) {
	var m model.MoodLog
	var note sql.NullString

	err := scanner.Scan(
		&m.ID, &m.UserID, &m.Mood, &m.Score, &note,
		&m.CoinsEarned, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Note = utils.NullStringToString(note)

	return &m, nil
}

// ScanAnimalWelfareLog scanne une ligne SQL vers un AnimalWelfareLog
func ScanAnimalWelfareLog(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.AnimalWelfareLog, error) {
	var a model.AnimalWelfareLog
	var description sql.NullString

	err := scanner.Scan(
		&a.ID, &a.UserID, &a.ActionType, &description,
		&a.CoinsEarned, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Description = utils.NullStringToString(description)

	return &a, nil
}

// ScanPlan scanne une ligne SQL vers un Plan
func ScanPlan(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Plan, error) {
	var p model.Plan

	err := scanner.Scan(
		&p.ID, &p.Name, &p.PricePaise, &p.BillingInterval,
		&p.CoinBonus, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// ScanSubscription scanne une ligne SQL vers une Subscription
func ScanSubscription(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Subscription, error) {
	var s model.Subscription
	var razorpayID sql.NullString
	var periodEnd sql.NullTime

	err := scanner.Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.Status,
		&razorpayID, &periodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.RazorpaySubscriptionID = utils.NullStringToPointer(razorpayID)
	s.CurrentPeriodEnd = utils.NullTimeToPointer(periodEnd)

	return &s, nil
}

// ScanActivityLog scanne une ligne SQL vers un ActivityLog
func ScanActivityLog(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.ActivityLog, error) {
	var a model.ActivityLog
	var userID, details sql.NullString

	err := scanner.Scan(&a.ID, &userID, &a.Action, &details, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	a.UserID = utils.NullStringToPointer(userID)
	a.Details = utils.NullStringToString(details)

	return &a, nil
}

// ScanAuditLog scanne une ligne SQL vers un AuditLog
func ScanAuditLog(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.AuditLog, error) {
	var a model.AuditLog
	var actorID, entityID sql.NullString
	var before, after []byte

	err := scanner.Scan(
		&a.ID, &actorID, &a.Action, &a.EntityType, &entityID,
		&before, &after, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.ActorID = utils.NullStringToPointer(actorID)
	a.EntityID = utils.NullStringToPointer(entityID)
	if len(before) > 0 {
		a.Before = json.RawMessage(before)
	}
	if len(after) > 0 {
		a.After = json.RawMessage(after)
	}

	return &a, nil
}
