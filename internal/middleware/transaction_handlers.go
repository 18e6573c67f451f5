package middleware

import (
	"log"
	"net/http"

	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Deposit crea la solicitud de depósito. El monto se guarda convertido a la
// moneda del usuario; el balance recién se acredita cuando el admin completa
// la transacción. Un depósito que alcanza el mínimo además libera el bono de
// referido pendiente del depositante.
func Deposit(c *gin.Context) {
	var deposit struct {
		Amount   float64         `json:"amount" binding:"required,gt=0"`
		Method   string          `json:"method" binding:"required"`
		Currency models.Currency `json:"currency" binding:"required,oneof=KSH USD"`
		Network  string          `json:"network"`
		Address  string          `json:"address"`
	}

	if err := c.ShouldBindJSON(&deposit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userId := c.GetString("userId")
	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	convertedAmount, err := exchangeSvc.Convert(deposit.Amount, deposit.Currency, user.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction := &models.Transaction{
		UserID:   userId,
		Type:     models.TxDeposit,
		Method:   deposit.Method,
		Amount:   convertedAmount,
		Currency: user.Currency,
		Status:   models.StatusPending,
		Network:  deposit.Network,
		Address:  deposit.Address,
	}
	if err := txRepo.CreateTransaction(transaction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear la transacción"})
		return
	}

	// Revisar si este depósito califica el bono del referente
	if user.ReferredBy != "" {
		if err := referralSvc.ProcessQualifyingDeposit(userId, convertedAmount, user.Currency); err != nil {
			log.Printf("Error al procesar bono de referido para %s: %v", userId, err)
		}
	}

	// Los depósitos crypto devuelven la dirección fija de la plataforma
	if deposit.Method == "crypto" {
		network := deposit.Network
		if network == "" {
			network = cfg.DepositNetwork
		}
		c.JSON(http.StatusOK, gin.H{
			"message":         "Solicitud de depósito creada",
			"transaction_id":  transaction.ID,
			"deposit_address": cfg.DepositAddress,
			"network":         network,
			"amount":          exchangeSvc.Format(convertedAmount, user.Currency),
			"original_amount": exchangeSvc.Format(deposit.Amount, deposit.Currency),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Solicitud de depósito enviada",
		"transaction_id":  transaction.ID,
		"status":          transaction.Status,
		"amount":          exchangeSvc.Format(convertedAmount, user.Currency),
		"original_amount": exchangeSvc.Format(deposit.Amount, deposit.Currency),
	})
}

// Withdraw crea la solicitud de retiro, que queda pendiente hasta que el
// admin la apruebe. Pide la contraseña como prueba de identidad y rechaza de
// entrada montos por encima del balance; el débito real, con su guard, se
// aplica al aprobar.
func Withdraw(c *gin.Context) {
	var withdraw struct {
		Amount   float64         `json:"amount" binding:"required,gt=0"`
		Method   string          `json:"method" binding:"required"`
		Currency models.Currency `json:"currency" binding:"required,oneof=KSH USD"`
		Address  string          `json:"address" binding:"required"`
		Password string          `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&withdraw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userId := c.GetString("userId")
	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	// Verificar la contraseña (las cuentas demo no tienen)
	if user.Role != models.RoleDemo {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(withdraw.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Contraseña incorrecta"})
			return
		}
	}

	convertedAmount, err := exchangeSvc.Convert(withdraw.Amount, withdraw.Currency, user.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if convertedAmount > user.Balance {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "Saldo insuficiente",
			"balance":          exchangeSvc.Format(user.Balance, user.Currency),
			"requested_amount": exchangeSvc.Format(convertedAmount, user.Currency),
		})
		return
	}

	transaction := &models.Transaction{
		UserID:   userId,
		Type:     models.TxWithdraw,
		Method:   withdraw.Method,
		Amount:   convertedAmount,
		Currency: user.Currency,
		Status:   models.StatusPending,
		Address:  withdraw.Address,
	}
	if err := txRepo.CreateTransaction(transaction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear la transacción"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Solicitud de retiro enviada para aprobación",
		"transaction_id":  transaction.ID,
		"status":          transaction.Status,
		"amount":          exchangeSvc.Format(convertedAmount, user.Currency),
		"original_amount": exchangeSvc.Format(withdraw.Amount, withdraw.Currency),
	})
}

// GetTransactions lista las transacciones del usuario, con el monto también
// convertido a su moneda actual cuando difiere
func GetTransactions(c *gin.Context) {
	userId := c.GetString("userId")

	user, err := userRepo.GetUserById(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	transactions, err := txRepo.GetUserTransactions(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]gin.H, 0, len(transactions))
	for _, t := range transactions {
		entry := gin.H{
			"id":               t.ID,
			"type":             t.Type,
			"method":           t.Method,
			"amount":           t.Amount,
			"currency":         t.Currency,
			"status":           t.Status,
			"created_at":       t.CreatedAt,
			"formatted_amount": exchangeSvc.Format(t.Amount, t.Currency),
		}
		if t.Currency != user.Currency {
			converted, err := exchangeSvc.Convert(t.Amount, t.Currency, user.Currency)
			if err == nil {
				entry["converted_amount"] = exchangeSvc.Format(converted, user.Currency)
			}
		}
		result = append(result, entry)
	}

	c.JSON(http.StatusOK, result)
}
