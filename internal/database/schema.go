package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema crée les tables si elles n'existent pas encore.
// Les ALTER TABLE ... ADD COLUMN IF NOT EXISTS couvrent les colonnes
// ajoutées après les premiers déploiements.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		// Utilisateurs
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar TEXT,
			ward TEXT,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			eco_score INT NOT NULL DEFAULT 0,
			provider TEXT,
			join_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT,
			updated_by TEXT,
			deleted_at TIMESTAMPTZ,
			deleted_by TEXT
		);`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS ward TEXT;`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS eco_score INT NOT NULL DEFAULT 0;`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS email_verified BOOLEAN NOT NULL DEFAULT FALSE;`,

		// Sessions (tokens opaques)
		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			token TEXT NOT NULL UNIQUE,
			ip_address TEXT,
			user_agent TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT,
			updated_by TEXT,
			deleted_at TIMESTAMPTZ,
			deleted_by TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions (token);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions (user_id);`,

		// Refresh tokens (hashés SHA-256)
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			token_hash TEXT NOT NULL UNIQUE,
			ip_address TEXT,
			user_agent TEXT,
			expires_at TIMESTAMPTZ NOT NULL,
			revoked_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT,
			updated_by TEXT,
			deleted_at TIMESTAMPTZ,
			deleted_by TEXT
		);`,

		// Réinitialisation de mot de passe
		`CREATE TABLE IF NOT EXISTS password_resets (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			token_hash TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			used_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		// Vérification d'adresse email
		`CREATE TABLE IF NOT EXISTS email_verifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			token_hash TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			used_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_email_verifications_token_hash ON email_verifications (token_hash);`,

		// Portefeuille HealCoins
		`CREATE TABLE IF NOT EXISTS wallets (
			user_id UUID PRIMARY KEY,
			heal_coins BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		// Transactions du portefeuille (immutables, avec solde avant/après)
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			type TEXT NOT NULL,
			amount BIGINT NOT NULL,
			source TEXT NOT NULL,
			reference_id TEXT,
			balance_before BIGINT NOT NULL,
			balance_after BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_wallet_transactions_user_id
			ON wallet_transactions (user_id, created_at DESC);`,

		// Plafond journalier de gains (autorité côté serveur)
		`CREATE TABLE IF NOT EXISTS daily_earnings (
			user_id UUID NOT NULL,
			day DATE NOT NULL,
			earned BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, day)
		);`,

		// Mini-jeux
		`CREATE TABLE IF NOT EXISTS games (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			description TEXT,
			game_type TEXT NOT NULL,
			category TEXT NOT NULL,
			base_coins INT NOT NULL DEFAULT 10,
			max_score INT NOT NULL DEFAULT 100,
			tags TEXT[],
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT,
			updated_by TEXT,
			deleted_at TIMESTAMPTZ,
			deleted_by TEXT
		);`,

		// Scores de jeu (un par tentative, immutable)
		`CREATE TABLE IF NOT EXISTS game_scores (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			game_id UUID NOT NULL,
			game_type TEXT NOT NULL,
			score INT NOT NULL,
			max_score INT NOT NULL,
			percentage INT NOT NULL,
			coins_earned INT NOT NULL,
			attempt_count INT NOT NULL DEFAULT 1,
			duration_seconds INT NOT NULL DEFAULT 0,
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_game_scores_user_game
			ON game_scores (user_id, game_id, created_at DESC);`,

		// Classements (une ligne par portée)
		`CREATE TABLE IF NOT EXISTS leaderboard_entries (
			scope TEXT NOT NULL,
			scope_key TEXT NOT NULL,
			user_id UUID NOT NULL,
			score BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (scope, scope_key, user_id)
		);`,

		// Trackers environnement / santé mentale / bien-être animal
		`CREATE TABLE IF NOT EXISTS carbon_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			action_type TEXT NOT NULL,
			value NUMERIC NOT NULL,
			co2_saved_kg NUMERIC NOT NULL DEFAULT 0,
			coins_earned INT NOT NULL DEFAULT 0,
			details TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS mood_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			mood TEXT NOT NULL,
			score INT NOT NULL,
			note TEXT,
			coins_earned INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS animal_welfare_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			action_type TEXT NOT NULL,
			description TEXT,
			coins_earned INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		// Marketplace de récompenses
		`CREATE TABLE IF NOT EXISTS rewards (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			description TEXT,
			coin_cost INT NOT NULL,
			stock INT NOT NULL DEFAULT 0,
			image_url TEXT,
			tags TEXT[],
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT,
			updated_by TEXT,
			deleted_at TIMESTAMPTZ,
			deleted_by TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS redemptions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			reward_id UUID NOT NULL,
			coin_cost INT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		// Abonnements / paiements Razorpay
		`CREATE TABLE IF NOT EXISTS plans (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			price_paise BIGINT NOT NULL,
			billing_interval TEXT NOT NULL DEFAULT 'monthly',
			coin_bonus INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			plan_id UUID NOT NULL,
			status TEXT NOT NULL DEFAULT 'created',
			razorpay_subscription_id TEXT,
			current_period_end TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID,
			razorpay_event_id TEXT NOT NULL UNIQUE,
			razorpay_payment_id TEXT,
			amount_paise BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		// Journal d'activité (lisible) et journal d'audit (avant/après)
		`CREATE TABLE IF NOT EXISTS activity_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID,
			action TEXT NOT NULL,
			details TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			actor_id UUID,
			action TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT,
			before_state JSONB,
			after_state JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at
			ON audit_logs (created_at DESC);`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
