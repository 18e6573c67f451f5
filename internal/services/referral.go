package services

import (
	"database/sql"

	"github.com/Emannuh254/Forexpro/internal/config"
	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/google/uuid"
)

// ReferralService crea el bono pendiente cuando alguien se registra con un
// código de referido y lo paga, una sola vez, cuando el referido hace un
// depósito que alcanza el mínimo configurado.
type ReferralService struct {
	db       *sql.DB
	cfg      *config.Config
	exchange *ExchangeService
	ledger   *LedgerService
}

func NewReferralService(db *sql.DB, cfg *config.Config, exchange *ExchangeService, ledger *LedgerService) *ReferralService {
	return &ReferralService{db: db, cfg: cfg, exchange: exchange, ledger: ledger}
}

// RegisterSignup registra el alta de un referido: crea el bono pendiente en
// la moneda del referente y suma el contador de referidos de inmediato (el
// contador refleja registros, no bonos pagados). Un código inexistente se
// ignora sin error.
func (s *ReferralService) RegisterSignup(referredID string, referredCurrency models.Currency, referralCode string) error {
	if referralCode == "" {
		return nil
	}

	var referrerID string
	var referrerCurrency models.Currency
	err := s.db.QueryRow(
		`SELECT id, currency FROM users WHERE referral_code = ?`,
		referralCode,
	).Scan(&referrerID, &referrerCurrency)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	// El bono es el monto del bono de registro, convertido a la moneda del
	// referente
	bonus := s.cfg.SignupBonus(referredCurrency)
	if referredCurrency != referrerCurrency {
		bonus, err = s.exchange.Convert(bonus, referredCurrency, referrerCurrency)
		if err != nil {
			return err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO referral_bonuses (id, referrer_id, referred_id, amount, currency, status)
		 VALUES (?, ?, ?, ?, ?, 'pending')`,
		uuid.NewString(), referrerID, referredID, bonus, referrerCurrency,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`UPDATE users SET referrals = referrals + 1 WHERE id = ?`, referrerID); err != nil {
		return err
	}

	return tx.Commit()
}

// ProcessQualifyingDeposit revisa si un depósito del referido libera su bono
// pendiente. El monto llega ya convertido a la moneda del depositante. Si no
// hay bono pendiente, o ya se pagó, no hace nada: repetir el depósito no
// puede acreditar dos veces.
func (s *ReferralService) ProcessQualifyingDeposit(referredID string, amount float64, currency models.Currency) error {
	if amount < s.cfg.MinReferralDeposit(currency) {
		return nil
	}

	var bonus models.ReferralBonus
	err := s.db.QueryRow(
		`SELECT id, referrer_id, amount, currency FROM referral_bonuses
		 WHERE referred_id = ? AND status = 'pending'`,
		referredID,
	).Scan(&bonus.ID, &bonus.ReferrerID, &bonus.Amount, &bonus.Currency)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	unlock := s.ledger.Lock(bonus.ReferrerID)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// El guard sobre status='pending' permite una sola transición; si otra
	// request ya lo completó, esto no afecta filas y no se paga de nuevo
	result, err := tx.Exec(
		`UPDATE referral_bonuses SET status = 'completed', completed_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'pending'`,
		bonus.ID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	if err := s.ledger.CreditTx(tx, bonus.ReferrerID, bonus.Amount, false); err != nil {
		return err
	}

	record := &models.Transaction{
		UserID:   bonus.ReferrerID,
		Type:     models.TxBonus,
		Method:   "referral",
		Amount:   bonus.Amount,
		Currency: bonus.Currency,
		Status:   models.StatusCompleted,
	}
	if err := s.ledger.RecordTx(tx, record); err != nil {
		return err
	}

	return tx.Commit()
}
