package services

import (
	"database/sql"
	"errors"

	"github.com/Emannuh254/Forexpro/internal/config"
	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/google/uuid"
)

var ErrInvalidProgress = errors.New("el progreso debe estar entre 0 y 100")

// Tramos de inversión ordenados de mayor a menor. La tabla no es monótona:
// hay tramos promocionales intermedios que pagan más que tramos superiores.
var profitBrackets = []struct {
	Min        float64
	Multiplier float64
}{
	{100000, 2.5},
	{70000, 2.8},
	{50000, 2.25},
	{45000, 2.3},
	{40000, 2.3},
	{30000, 2.6},
	{20000, 2.5},
	{15000, 2.4},
	{10000, 2.3},
	{7000, 2.65},
	{2000, 2.33},
	{0, 2.2},
}

// MultiplierFor devuelve el multiplicador del primer tramo cuyo mínimo
// alcanza la inversión (expresada en KSH).
func MultiplierFor(investmentKSH float64) float64 {
	for _, bracket := range profitBrackets {
		if investmentKSH >= bracket.Min {
			return bracket.Multiplier
		}
	}
	return profitBrackets[len(profitBrackets)-1].Multiplier
}

// BotService maneja el ciclo de vida de los bots: compra, avance de progreso
// y maduración. Los montos del bot se guardan en KSH; daily_profit y
// total_profit se fijan al crearlo y no se recalculan.
type BotService struct {
	db       *sql.DB
	cfg      *config.Config
	exchange *ExchangeService
	ledger   *LedgerService
}

func NewBotService(db *sql.DB, cfg *config.Config, exchange *ExchangeService, ledger *LedgerService) *BotService {
	return &BotService{db: db, cfg: cfg, exchange: exchange, ledger: ledger}
}

// PurchaseBot crea un bot y debita la inversión en una sola transacción SQL:
// o queda el bot con su débito y su fila de auditoría, o no queda nada.
// El monto se interpreta en la moneda del usuario.
func (s *BotService) PurchaseBot(userID, name string, investment float64) (*models.TradingBot, error) {
	if investment <= 0 {
		return nil, ErrInvalidAmount
	}

	var currency models.Currency
	err := s.db.QueryRow(`SELECT currency FROM users WHERE id = ?`, userID).Scan(&currency)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	// Convertir la inversión a KSH para almacenamiento interno
	investmentKSH, err := s.exchange.Convert(investment, currency, models.KSH)
	if err != nil {
		return nil, err
	}

	multiplier := MultiplierFor(investmentKSH)
	totalProfitKSH := investmentKSH * multiplier
	dailyProfitKSH := totalProfitKSH / float64(s.cfg.BotCycleDays)

	unlock := s.ledger.Lock(userID)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.ledger.DebitTx(tx, userID, investment); err != nil {
		return nil, err
	}

	bot := &models.TradingBot{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Investment:  investmentKSH,
		DailyProfit: dailyProfitKSH,
		TotalProfit: totalProfitKSH,
		Progress:    0,
		Status:      models.BotActive,
	}

	_, err = tx.Exec(
		`INSERT INTO trading_bots (id, user_id, name, investment, daily_profit, total_profit, progress, status)
		 VALUES (?, ?, ?, ?, ?, ?, 0, 'active')`,
		bot.ID, bot.UserID, bot.Name, bot.Investment, bot.DailyProfit, bot.TotalProfit,
	)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`UPDATE users SET active_bots = active_bots + 1 WHERE id = ?`, userID); err != nil {
		return nil, err
	}

	// Fila de auditoría del débito de la compra
	record := &models.Transaction{
		UserID:   userID,
		Type:     models.TxWithdraw,
		Method:   "bot",
		Amount:   investment,
		Currency: currency,
		Status:   models.StatusCompleted,
	}
	if err := s.ledger.RecordTx(tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return bot, nil
}

// UpdateProgress guarda el progreso que informa el driver externo. El
// progreso nunca retrocede: un valor menor al almacenado deja la fila como
// está. La primera vez que llega a 100 el bot pasa a completed y se acredita
// total_profit una única vez; repetir la maduración devuelve
// ErrAlreadyCompleted sin tocar el balance.
func (s *BotService) UpdateProgress(botID, userID string, progress int) (*models.TradingBot, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}

	bot, err := s.getBot(botID, userID)
	if err != nil {
		return nil, err
	}
	if bot.Status == models.BotCompleted {
		return bot, ErrAlreadyCompleted
	}

	unlock := s.ledger.Lock(userID)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// MAX(progress, ?) aplica el avance monótono en el propio update
	_, err = tx.Exec(
		`UPDATE trading_bots SET progress = MAX(progress, ?) WHERE id = ? AND status = 'active'`,
		progress, botID,
	)
	if err != nil {
		return nil, err
	}

	var current int
	if err := tx.QueryRow(`SELECT progress FROM trading_bots WHERE id = ?`, botID).Scan(&current); err != nil {
		return nil, err
	}
	bot.Progress = current

	if current >= 100 {
		// El guard sobre status='active' asegura que la maduración se
		// acredite una sola vez aunque lleguen dos requests a la vez
		result, err := tx.Exec(
			`UPDATE trading_bots SET status = 'completed', progress = 100 WHERE id = ? AND status = 'active'`,
			botID,
		)
		if err != nil {
			return nil, err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return bot, ErrAlreadyCompleted
		}

		var currency models.Currency
		if err := tx.QueryRow(`SELECT currency FROM users WHERE id = ?`, userID).Scan(&currency); err != nil {
			return nil, err
		}

		totalProfit, err := s.exchange.Convert(bot.TotalProfit, models.KSH, currency)
		if err != nil {
			return nil, err
		}

		if err := s.ledger.CreditTx(tx, userID, totalProfit, true); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`UPDATE users SET active_bots = active_bots - 1 WHERE id = ?`, userID); err != nil {
			return nil, err
		}

		record := &models.Transaction{
			UserID:   userID,
			Type:     models.TxProfit,
			Method:   "bot",
			Amount:   totalProfit,
			Currency: currency,
			Status:   models.StatusCompleted,
		}
		if err := s.ledger.RecordTx(tx, record); err != nil {
			return nil, err
		}

		bot.Status = models.BotCompleted
		bot.Progress = 100
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return bot, nil
}

func (s *BotService) getBot(botID, userID string) (*models.TradingBot, error) {
	bot := &models.TradingBot{}
	err := s.db.QueryRow(
		`SELECT id, user_id, name, investment, daily_profit, total_profit, progress, status, created_at
		 FROM trading_bots WHERE id = ? AND user_id = ?`,
		botID, userID,
	).Scan(&bot.ID, &bot.UserID, &bot.Name, &bot.Investment, &bot.DailyProfit, &bot.TotalProfit, &bot.Progress, &bot.Status, &bot.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBotNotFound
	}
	if err != nil {
		return nil, err
	}
	return bot, nil
}
