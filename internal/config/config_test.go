package config

import (
	"math"
	"testing"

	"github.com/Emannuh254/Forexpro/internal/models"
)

func testConfig() *Config {
	return &Config{
		USDToKSH:              150.0,
		SignupBonusKSH:        200,
		MinReferralDepositKSH: 10000,
		BotCycleDays:          30,
	}
}

func TestKSHToUSDIsDerived(t *testing.T) {
	cfg := testConfig()

	if got := cfg.KSHToUSD(); math.Abs(got*cfg.USDToKSH-1) > 1e-12 {
		t.Errorf("la tasa inversa debe ser recíproca de la canónica: %v", got)
	}
}

func TestSignupBonusPerCurrency(t *testing.T) {
	cfg := testConfig()

	if got := cfg.SignupBonus(models.KSH); got != 200 {
		t.Errorf("bono en KSH = %v, se esperaba 200", got)
	}
	// 200 / 150 redondeado a dos decimales
	if got := cfg.SignupBonus(models.USD); got != 1.33 {
		t.Errorf("bono en USD = %v, se esperaba 1.33", got)
	}
}

func TestMinReferralDepositPerCurrency(t *testing.T) {
	cfg := testConfig()

	if got := cfg.MinReferralDeposit(models.KSH); got != 10000 {
		t.Errorf("mínimo en KSH = %v, se esperaba 10000", got)
	}
	// 10000 / 150 redondeado a dos decimales
	if got := cfg.MinReferralDeposit(models.USD); got != 66.67 {
		t.Errorf("mínimo en USD = %v, se esperaba 66.67", got)
	}
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	t.Setenv("USD_TO_KSH", "-1")

	if _, err := Load(); err == nil {
		t.Error("una tasa negativa debe rechazarse al cargar")
	}
}
