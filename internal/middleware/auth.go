package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/Emannuh254/Forexpro/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
			c.Abort()
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("userId", claims["userId"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// AdminMiddleware exige el rol admin; se encadena después de AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Se requiere acceso de administrador"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GenerateToken(userID, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"exp":    time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	return token.SignedString([]byte(cfg.JWTSecret))
}

func Signup(c *gin.Context) {
	var signup struct {
		Name         string          `json:"name" binding:"required"`
		Email        string          `json:"email" binding:"required,email"`
		Password     string          `json:"password" binding:"omitempty,min=8"`
		Phone        string          `json:"phone"`
		Country      string          `json:"country"`
		Currency     models.Currency `json:"currency" binding:"omitempty,oneof=KSH USD"`
		ReferralCode string          `json:"referralCode"`
		IsDemo       bool            `json:"isDemo"`
	}

	if err := c.ShouldBindJSON(&signup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !signup.IsDemo && signup.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña debe tener al menos 8 caracteres"})
		return
	}

	currency := signup.Currency
	if currency == "" {
		currency = models.KSH
	}

	// Verificar si el email ya está registrado
	if _, err := userRepo.GetUserByEmail(signup.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El email ya está registrado"})
		return
	}

	// Hash de la contraseña (las cuentas demo no tienen)
	var hashedPassword string
	if !signup.IsDemo {
		hash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar la contraseña"})
			return
		}
		hashedPassword = string(hash)
	}

	role := models.RoleUser
	balance := cfg.SignupBonus(currency)
	if signup.IsDemo {
		role = models.RoleDemo
		demoBalance, err := exchangeSvc.Convert(cfg.DemoBalanceUSD, models.USD, currency)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		balance = demoBalance
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         signup.Name,
		Email:        signup.Email,
		Password:     hashedPassword,
		Phone:        signup.Phone,
		Country:      signup.Country,
		Currency:     currency,
		Balance:      balance,
		ReferralCode: repository.GenerateReferralCode(),
		ReferredBy:   signup.ReferralCode,
		Role:         role,
	}

	if err := userRepo.CreateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear usuario"})
		return
	}

	if !signup.IsDemo {
		// Fila de auditoría del bono de registro
		bonusTx := &models.Transaction{
			UserID:   user.ID,
			Type:     models.TxBonus,
			Method:   "signup",
			Amount:   balance,
			Currency: currency,
			Status:   models.StatusCompleted,
		}
		if err := txRepo.CreateTransaction(bonusTx); err != nil {
			log.Printf("Error al registrar el bono de registro para %s: %v", user.ID, err)
		}

		// Dejar el bono de referido pendiente si vino un código válido
		if signup.ReferralCode != "" {
			if err := referralSvc.RegisterSignup(user.ID, currency, signup.ReferralCode); err != nil {
				log.Printf("Error al registrar referido de %s: %v", user.ID, err)
			}
		}
	}

	token, err := GenerateToken(user.ID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registro exitoso",
		"token":   token,
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"referral_code": user.ReferralCode,
			"balance":       user.Balance,
			"currency":      user.Currency,
		},
	})
}

func Login(c *gin.Context) {
	var login struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := userRepo.GetUserByEmail(login.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}

	// Las cuentas demo entran sin verificación de contraseña
	if user.Role != models.RoleDemo {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(login.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
			return
		}
	}

	token, err := GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inicio de sesión exitoso",
		"token":   token,
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"balance":       user.Balance,
			"profit":        user.Profit,
			"active_bots":   user.ActiveBots,
			"referrals":     user.Referrals,
			"referral_code": user.ReferralCode,
			"role":          user.Role,
			"currency":      user.Currency,
		},
	})
}

// DemoLogin crea una cuenta demo al vuelo, sin credenciales
func DemoLogin(c *gin.Context) {
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         "Demo User",
		Email:        fmt.Sprintf("demo-%s@forexpro.demo", repository.GenerateReferralCode()),
		Currency:     models.USD,
		Balance:      cfg.DemoBalanceUSD,
		ReferralCode: repository.GenerateReferralCode(),
		Role:         models.RoleDemo,
	}

	if err := userRepo.CreateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear la cuenta demo"})
		return
	}

	token, err := GenerateToken(user.ID, models.RoleDemo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Modo demo activado",
		"token":   token,
		"user": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"balance":     user.Balance,
			"profit":      0,
			"active_bots": 0,
			"referrals":   0,
			"role":        user.Role,
			"currency":    user.Currency,
		},
	})
}
