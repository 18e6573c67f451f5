package models

// Monedas soportadas por la plataforma
type Currency string

const (
	KSH Currency = "KSH"
	USD Currency = "USD"
)

func (c Currency) IsValid() bool {
	return c == KSH || c == USD
}

// Other devuelve la otra moneda soportada
func (c Currency) Other() Currency {
	if c == KSH {
		return USD
	}
	return KSH
}
