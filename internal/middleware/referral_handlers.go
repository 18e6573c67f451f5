package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetReferralStats resume los referidos y bonos del usuario autenticado
func GetReferralStats(c *gin.Context) {
	userId := c.GetString("userId")

	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	stats, err := referralRepo.GetStats(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	bonusPerReferral := cfg.SignupBonus(user.Currency)

	c.JSON(http.StatusOK, gin.H{
		"total_referrals":              stats.TotalReferrals,
		"completed_referrals":          stats.CompletedReferrals,
		"pending_referrals":            stats.PendingReferrals,
		"total_bonus":                  stats.TotalBonus,
		"formatted_total_bonus":        exchangeSvc.Format(stats.TotalBonus, user.Currency),
		"bonus_per_referral":           bonusPerReferral,
		"formatted_bonus_per_referral": exchangeSvc.Format(bonusPerReferral, user.Currency),
	})
}

// GetReferralHistory lista los referidos del usuario con el estado del bono
// de cada uno
func GetReferralHistory(c *gin.Context) {
	userId := c.GetString("userId")

	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	history, err := referralRepo.GetHistory(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]gin.H, 0, len(history))
	for _, entry := range history {
		item := gin.H{
			"id":            entry.ID,
			"name":          entry.Name,
			"email":         entry.Email,
			"referral_date": entry.ReferralDate,
			"bonus_status":  entry.BonusStatus,
			"bonus_amount":  entry.BonusAmount,
		}
		if entry.BonusDate.Valid {
			item["bonus_date"] = entry.BonusDate.Time
		}
		if entry.BonusCurrency != "" {
			item["formatted_bonus_amount"] = exchangeSvc.Format(entry.BonusAmount, entry.BonusCurrency)
			if entry.BonusCurrency != user.Currency {
				converted, err := exchangeSvc.Convert(entry.BonusAmount, entry.BonusCurrency, user.Currency)
				if err == nil {
					item["converted_bonus_amount"] = exchangeSvc.Format(converted, user.Currency)
				}
			}
		}
		result = append(result, item)
	}

	c.JSON(http.StatusOK, result)
}
