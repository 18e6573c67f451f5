package services

import (
	"fmt"

	"github.com/Emannuh254/Forexpro/internal/config"
	"github.com/Emannuh254/Forexpro/internal/models"
)

// ExchangeService convierte montos entre las dos monedas soportadas. Guarda
// una sola tasa canónica (USD -> KSH) y deriva la inversa, así los dos
// sentidos son recíprocos por construcción.
type ExchangeService struct {
	cfg *config.Config
}

func NewExchangeService(cfg *config.Config) *ExchangeService {
	return &ExchangeService{cfg: cfg}
}

// Convert pasa un monto de una moneda a otra. Si las monedas coinciden
// devuelve el monto exacto, sin redondeos.
func (s *ExchangeService) Convert(amount float64, from, to models.Currency) (float64, error) {
	if !from.IsValid() || !to.IsValid() {
		return 0, ErrUnsupportedCurrency
	}
	if from == to {
		return amount, nil
	}

	if from == models.USD {
		return amount * s.cfg.USDToKSH, nil
	}
	return amount * s.cfg.KSHToUSD(), nil
}

type ExchangeRates struct {
	USDToKSH float64 `json:"USD_TO_KSH"`
	KSHToUSD float64 `json:"KSH_TO_USD"`
}

func (s *ExchangeService) Rates() ExchangeRates {
	return ExchangeRates{
		USDToKSH: s.cfg.USDToKSH,
		KSHToUSD: s.cfg.KSHToUSD(),
	}
}

// Format presenta un monto en el formato de su moneda
func (s *ExchangeService) Format(amount float64, currency models.Currency) string {
	if currency == models.USD {
		return fmt.Sprintf("$%.2f", amount)
	}
	return fmt.Sprintf("KSH %.2f", amount)
}
