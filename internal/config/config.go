package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración de la plataforma. Se carga una sola
// vez en main y se inyecta en cada motor; los valores derivados (tasa
// inversa, mínimos en USD) se calculan siempre a partir de la tasa canónica
// para que nunca queden desincronizados.
type Config struct {
	Port      string
	JWTSecret string

	// Tasa canónica: 1 USD en KSH. La inversa se deriva, no se configura.
	USDToKSH float64

	// Bono de registro y mínimo de depósito para calificar un referido,
	// ambos expresados en KSH.
	SignupBonusKSH        float64
	MinReferralDepositKSH float64

	// Balance inicial de las cuentas demo, en USD
	DemoBalanceUSD float64

	// Dirección fija para depósitos crypto
	DepositAddress string
	DepositNetwork string

	// Duración del ciclo de un bot, en días
	BotCycleDays int

	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	// Cargar variables de entorno
	if err := godotenv.Load(); err != nil {
		log.Printf("No se pudo cargar el archivo .env: %v", err)
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		JWTSecret:             getEnv("JWT_SECRET", "forexpro-secret-key"),
		USDToKSH:              getEnvFloat("USD_TO_KSH", 150.0),
		SignupBonusKSH:        getEnvFloat("SIGNUP_BONUS_KSH", 200),
		MinReferralDepositKSH: getEnvFloat("MIN_REFERRAL_DEPOSIT_KSH", 10000),
		DemoBalanceUSD:        getEnvFloat("DEMO_BALANCE_USD", 66.67),
		DepositAddress:        getEnv("DEPOSIT_ADDRESS", "0x081fc7d993439f0aa44e8d9514c00d0b560fb940"),
		DepositNetwork:        getEnv("DEPOSIT_NETWORK", "BSC"),
		BotCycleDays:          30,
		AdminEmail:            getEnv("ADMIN_EMAIL", "admin@forexpro.com"),
		AdminPassword:         getEnv("ADMIN_PASSWORD", "admin123"),
	}

	if cfg.USDToKSH <= 0 {
		return nil, fmt.Errorf("la tasa USD_TO_KSH debe ser positiva, se recibió %v", cfg.USDToKSH)
	}
	if cfg.SignupBonusKSH < 0 || cfg.MinReferralDepositKSH < 0 {
		return nil, fmt.Errorf("los montos configurados no pueden ser negativos")
	}

	return cfg, nil
}

// KSHToUSD deriva la tasa inversa de la canónica
func (c *Config) KSHToUSD() float64 {
	return 1 / c.USDToKSH
}

// SignupBonus devuelve el bono de registro en la moneda indicada
func (c *Config) SignupBonus(currency models.Currency) float64 {
	if currency == models.USD {
		return round2(c.SignupBonusKSH / c.USDToKSH)
	}
	return c.SignupBonusKSH
}

// MinReferralDeposit devuelve el depósito mínimo que califica un referido,
// en la moneda indicada. El umbral en USD se deriva de la tasa para que un
// cambio de tasa no lo deje inconsistente.
func (c *Config) MinReferralDeposit(currency models.Currency) float64 {
	if currency == models.USD {
		return round2(c.MinReferralDepositKSH / c.USDToKSH)
	}
	return c.MinReferralDepositKSH
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Valor inválido para %s: %v, usando %v", key, value, fallback)
		return fallback
	}
	return parsed
}
