package models

import "time"

// Estados de un bot de trading
const (
	BotActive    = "active"
	BotCompleted = "completed"
)

// TradingBot guarda los montos en KSH (moneda interna); se convierten a la
// moneda del usuario al momento de mostrarlos.
type TradingBot struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name" binding:"required"`
	Investment  float64   `json:"investment"`
	DailyProfit float64   `json:"daily_profit"`
	TotalProfit float64   `json:"total_profit"`
	Progress    int       `json:"progress"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
