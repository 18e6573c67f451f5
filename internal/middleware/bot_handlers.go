package middleware

import (
	"errors"
	"net/http"

	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/Emannuh254/Forexpro/internal/services"
	"github.com/gin-gonic/gin"
)

// GetBots lista los bots del usuario con los montos convertidos de KSH a su
// moneda actual
func GetBots(c *gin.Context) {
	userId := c.GetString("userId")

	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	bots, err := botRepo.GetUserBots(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]gin.H, 0, len(bots))
	for _, bot := range bots {
		investment, _ := exchangeSvc.Convert(bot.Investment, models.KSH, user.Currency)
		dailyProfit, _ := exchangeSvc.Convert(bot.DailyProfit, models.KSH, user.Currency)
		totalProfit, _ := exchangeSvc.Convert(bot.TotalProfit, models.KSH, user.Currency)

		result = append(result, gin.H{
			"id":                     bot.ID,
			"name":                   bot.Name,
			"investment":             investment,
			"daily_profit":           dailyProfit,
			"total_profit":           totalProfit,
			"progress":               bot.Progress,
			"status":                 bot.Status,
			"created_at":             bot.CreatedAt,
			"currency":               user.Currency,
			"formatted_investment":   exchangeSvc.Format(investment, user.Currency),
			"formatted_daily_profit": exchangeSvc.Format(dailyProfit, user.Currency),
			"formatted_total_profit": exchangeSvc.Format(totalProfit, user.Currency),
		})
	}

	c.JSON(http.StatusOK, result)
}

// CreateBot compra un bot con el monto indicado en la moneda del usuario
func CreateBot(c *gin.Context) {
	var request struct {
		Name       string  `json:"name" binding:"required"`
		Investment float64 `json:"investment" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userId := c.GetString("userId")
	bot, err := botSvc.PurchaseBot(userId, request.Name, request.Investment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Saldo insuficiente"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalProfit, _ := exchangeSvc.Convert(bot.TotalProfit, models.KSH, user.Currency)
	dailyProfit, _ := exchangeSvc.Convert(bot.DailyProfit, models.KSH, user.Currency)

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Bot de trading creado exitosamente",
		"bot_id":          bot.ID,
		"expected_return": exchangeSvc.Format(totalProfit, user.Currency),
		"daily_profit":    exchangeSvc.Format(dailyProfit, user.Currency),
		"investment":      exchangeSvc.Format(request.Investment, user.Currency),
		"currency":        user.Currency,
	})
}

// UpdateBotProgress recibe el progreso que informa el driver externo. Una
// maduración repetida no es un error para el caller: responde el estado
// actual sin volver a acreditar.
func UpdateBotProgress(c *gin.Context) {
	var request struct {
		Progress *int `json:"progress" binding:"required,min=0,max=100"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userId := c.GetString("userId")
	botId := c.Param("id")

	bot, err := botSvc.UpdateProgress(botId, userId, *request.Progress)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Bot no encontrado"})
			return
		case errors.Is(err, services.ErrAlreadyCompleted):
			// No-op benigno: el bot ya había madurado
			c.JSON(http.StatusOK, gin.H{
				"message":  "El bot ya está completado",
				"progress": bot.Progress,
				"status":   bot.Status,
			})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Progreso del bot actualizado",
		"progress": bot.Progress,
		"status":   bot.Status,
	})
}
