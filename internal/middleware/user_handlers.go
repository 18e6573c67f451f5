package middleware

import (
	"net/http"

	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/gin-gonic/gin"
)

// GetProfile devuelve el perfil con el balance también convertido a la otra
// moneda, para mostrar ambos en el dashboard
func GetProfile(c *gin.Context) {
	userId := c.GetString("userId")

	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	otherCurrency := user.Currency.Other()
	convertedBalance, err := exchangeSvc.Convert(user.Balance, user.Currency, otherCurrency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                user.ID,
		"name":              user.Name,
		"email":             user.Email,
		"phone":             user.Phone,
		"country":           user.Country,
		"currency":          user.Currency,
		"balance":           user.Balance,
		"converted_balance": convertedBalance,
		"other_currency":    otherCurrency,
		"profit":            user.Profit,
		"active_bots":       user.ActiveBots,
		"referrals":         user.Referrals,
		"referral_code":     user.ReferralCode,
		"role":              user.Role,
	})
}

// UpdateProfile actualiza los campos editables. Si cambia la moneda, el
// balance almacenado se convierte a la nueva.
func UpdateProfile(c *gin.Context) {
	userId := c.GetString("userId")

	var update struct {
		Name     *string          `json:"name"`
		Email    *string          `json:"email" binding:"omitempty,email"`
		Phone    *string          `json:"phone"`
		Country  *string          `json:"country"`
		Currency *models.Currency `json:"currency" binding:"omitempty,oneof=KSH USD"`
	}

	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Country != nil {
		user.Country = *update.Country
	}

	currencyChanged := false
	if update.Currency != nil && *update.Currency != user.Currency {
		// Convertir el balance a la nueva moneda
		newBalance, err := exchangeSvc.Convert(user.Balance, user.Currency, *update.Currency)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user.Balance = newBalance
		user.Currency = *update.Currency
		currencyChanged = true
	}

	if err := userRepo.UpdateProfile(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar usuario"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Perfil actualizado exitosamente",
		"currency_changed":  currencyChanged,
		"new_currency":      user.Currency,
		"converted_balance": user.Balance,
	})
}

// GetExchangeRates expone las dos tasas; la inversa siempre sale derivada
// de la canónica
func GetExchangeRates(c *gin.Context) {
	rates := exchangeSvc.Rates()
	c.JSON(http.StatusOK, gin.H{
		"USD_TO_KSH": rates.USDToKSH,
		"KSH_TO_USD": rates.KSHToUSD,
	})
}
