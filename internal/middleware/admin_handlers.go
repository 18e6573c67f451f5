package middleware

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/Emannuh254/Forexpro/internal/services"
	"github.com/gin-gonic/gin"
)

// GetStats arma el resumen de la plataforma para el panel de admin
func GetStats(c *gin.Context) {
	stats, err := txRepo.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalUsers, err := userRepo.CountUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats.TotalUsers = totalUsers

	activeBots, err := botRepo.CountActiveBots()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats.ActiveBots = activeBots

	c.JSON(http.StatusOK, gin.H{
		"total_users":              stats.TotalUsers,
		"total_transactions":       stats.TotalTransactions,
		"pending_deposits":         stats.PendingDeposits,
		"pending_withdrawals":      stats.PendingWithdrawals,
		"active_bots":              stats.ActiveBots,
		"completed_deposit_volume": stats.CompletedDepositVolume,
	})
}

// GetUsers lista todos los usuarios con el balance formateado en su moneda
func GetUsers(c *gin.Context) {
	users, err := userRepo.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]gin.H, 0, len(users))
	for _, user := range users {
		result = append(result, gin.H{
			"id":                user.ID,
			"name":              user.Name,
			"email":             user.Email,
			"phone":             user.Phone,
			"country":           user.Country,
			"currency":          user.Currency,
			"balance":           user.Balance,
			"formatted_balance": exchangeSvc.Format(user.Balance, user.Currency),
			"profit":            user.Profit,
			"formatted_profit":  exchangeSvc.Format(user.Profit, user.Currency),
			"active_bots":       user.ActiveBots,
			"referrals":         user.Referrals,
			"referral_code":     user.ReferralCode,
			"referred_by":       user.ReferredBy,
			"role":              user.Role,
			"created_at":        user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, result)
}

// SetUserBalance fija el balance de un usuario a un valor absoluto. Para
// acreditar montos con auditoría está AdminDeposit.
func SetUserBalance(c *gin.Context) {
	var request struct {
		Balance *float64 `json:"balance" binding:"required,min=0"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userId := c.Param("id")
	if err := userRepo.SetBalance(userId, *request.Balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Balance actualizado exitosamente",
		"user_id": userId,
		"balance": *request.Balance,
	})
}

// AdminDeposit acredita fondos directamente en la cuenta de un usuario,
// dejando la transacción de auditoría correspondiente
func AdminDeposit(c *gin.Context) {
	var request struct {
		UserID   string          `json:"user_id" binding:"required"`
		Amount   float64         `json:"amount" binding:"required,gt=0"`
		Currency models.Currency `json:"currency" binding:"required,oneof=KSH USD"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := userRepo.GetUserById(request.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	convertedAmount, err := exchangeSvc.Convert(request.Amount, request.Currency, user.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := ledgerSvc.Credit(user.ID, convertedAmount, user.Currency, models.TxDeposit, "admin")
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Depósito acreditado exitosamente",
		"transaction_id": record.ID,
		"user_id":        user.ID,
		"amount":         exchangeSvc.Format(convertedAmount, user.Currency),
	})
}

// GetAllTransactions lista todas las transacciones con los datos del dueño
func GetAllTransactions(c *gin.Context) {
	transactions, err := txRepo.GetAllTransactions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, formatTransactionsWithUser(transactions))
}

// GetPendingWithdrawals lista los retiros a la espera de aprobación
func GetPendingWithdrawals(c *gin.Context) {
	transactions, err := txRepo.GetPendingWithdrawals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, formatTransactionsWithUser(transactions))
}

func formatTransactionsWithUser(transactions []models.TransactionWithUser) []gin.H {
	result := make([]gin.H, 0, len(transactions))
	for _, t := range transactions {
		result = append(result, gin.H{
			"id":               t.ID,
			"user_id":          t.UserID,
			"user_name":        t.UserName,
			"user_email":       t.UserEmail,
			"type":             t.Type,
			"method":           t.Method,
			"amount":           t.Amount,
			"currency":         t.Currency,
			"status":           t.Status,
			"address":          t.Address,
			"network":          t.Network,
			"created_at":       t.CreatedAt,
			"formatted_amount": exchangeSvc.Format(t.Amount, t.Currency),
		})
	}
	return result
}

// SetTransactionStatus avanza el estado de una transacción pendiente.
// Completar un depósito acredita el balance; completar un retiro lo debita o,
// si el saldo ya no alcanza, lo marca como fallido.
func SetTransactionStatus(c *gin.Context) {
	var request struct {
		Status string `json:"status" binding:"required,oneof=pending completed failed"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactionId := c.Param("id")
	transaction, err := ledgerSvc.SetTransactionStatus(transactionId, request.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transacción no encontrada"})
		case errors.Is(err, services.ErrAlreadyCompleted):
			// No-op benigno: la transacción ya estaba en un estado terminal
			c.JSON(http.StatusOK, gin.H{
				"message": "La transacción ya fue procesada",
				"status":  transaction.Status,
			})
		case errors.Is(err, services.ErrInsufficientFunds):
			c.JSON(http.StatusOK, gin.H{
				"message": "Retiro marcado como fallido por saldo insuficiente",
				"status":  transaction.Status,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Estado de la transacción actualizado",
		"status":  transaction.Status,
	})
}
