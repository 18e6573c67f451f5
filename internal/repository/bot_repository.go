package repository

import (
	"database/sql"

	"github.com/Emannuh254/Forexpro/internal/models"
)

type BotRepository struct {
	db *sql.DB
}

func NewBotRepository(db *sql.DB) *BotRepository {
	return &BotRepository{db: db}
}

// GetUserBots devuelve los bots del usuario con los montos todavía en KSH;
// el handler los convierte a la moneda del usuario
func (r *BotRepository) GetUserBots(userID string) ([]models.TradingBot, error) {
	query := `
		SELECT id, user_id, name, investment, daily_profit, total_profit, progress, status, created_at
		FROM trading_bots
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bots := []models.TradingBot{}
	for rows.Next() {
		var bot models.TradingBot
		err := rows.Scan(&bot.ID, &bot.UserID, &bot.Name, &bot.Investment, &bot.DailyProfit,
			&bot.TotalProfit, &bot.Progress, &bot.Status, &bot.CreatedAt)
		if err != nil {
			return nil, err
		}
		bots = append(bots, bot)
	}
	return bots, rows.Err()
}

func (r *BotRepository) CountActiveBots() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trading_bots WHERE status = 'active'`).Scan(&count)
	return count, err
}
