package utils

// DailyCoinLimit est le plafond de HealCoins qu'un utilisateur peut gagner
// par jour calendaire. Appliqué côté serveur dans une transaction.
const DailyCoinLimit = 500

// CalculatePercentage convertit un score brut en pourcentage entier (0-100)
func CalculatePercentage(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	pct := score * 100 / maxScore
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// CalculateCoinsEarned retourne les HealCoins gagnés selon des paliers fixes:
// ≥90% → 100% des coins de base, ≥80% → 80%, ≥70% → 60%, ≥60% → 40%,
// ≥50% → 20%, <50% → 0. Les valeurs intermédiaires sont tronquées à l'entier.
func CalculateCoinsEarned(baseCoins, percentage int) int {
	if baseCoins <= 0 {
		return 0
	}
	switch {
	case percentage >= 90:
		return baseCoins
	case percentage >= 80:
		return baseCoins * 80 / 100
	case percentage >= 70:
		return baseCoins * 60 / 100
	case percentage >= 60:
		return baseCoins * 40 / 100
	case percentage >= 50:
		return baseCoins * 20 / 100
	default:
		return 0
	}
}

// ApplyDailyCap calcule la part d'un gain acceptée sous le plafond journalier.
// Retourne le montant accepté et un indicateur "plafond atteint".
func ApplyDailyCap(earnedToday, limit, coins int) (accepted int, limitReached bool) {
	remaining := limit - earnedToday
	if remaining <= 0 {
		return 0, true
	}
	if coins >= remaining {
		return remaining, true
	}
	return coins, false
}
