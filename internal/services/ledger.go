package services

import (
	"database/sql"
	"sync"

	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/google/uuid"
)

// LedgerService es el único punto por donde pasan las mutaciones de balance.
// Cada operación toma el candado del usuario y ejecuta el débito como un
// update condicional, así dos débitos concurrentes no pueden leer el mismo
// balance viejo. Todo cambio de balance comprometido queda emparejado con
// exactamente una fila en transactions.
type LedgerService struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock serializa las operaciones de balance de un usuario. Devuelve la
// función que libera el candado.
func (s *LedgerService) Lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// CreditTx suma un monto al balance dentro de una transacción SQL en curso.
// Con includeProfit también acumula el campo profit (maduración de bots).
func (s *LedgerService) CreditTx(tx *sql.Tx, userID string, amount float64, includeProfit bool) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	var result sql.Result
	var err error
	if includeProfit {
		result, err = tx.Exec(
			`UPDATE users SET balance = balance + ?, profit = profit + ? WHERE id = ?`,
			amount, amount, userID,
		)
	} else {
		result, err = tx.Exec(
			`UPDATE users SET balance = balance + ? WHERE id = ?`,
			amount, userID,
		)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DebitTx resta un monto del balance. La condición balance >= monto va en el
// mismo update: si no se cumple no se modifica ninguna fila.
func (s *LedgerService) DebitTx(tx *sql.Tx, userID string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	result, err := tx.Exec(
		`UPDATE users SET balance = balance - ? WHERE id = ? AND balance >= ?`,
		amount, userID, amount,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// Distinguir usuario inexistente de saldo insuficiente
	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrUserNotFound
	}
	return ErrInsufficientFunds
}

// RecordTx inserta la fila de auditoría asociada a un cambio de balance
func (s *LedgerService) RecordTx(tx *sql.Tx, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.StatusCompleted
	}

	_, err := tx.Exec(
		`INSERT INTO transactions (id, user_id, type, method, amount, currency, status, address, network)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Type, t.Method, t.Amount, t.Currency, t.Status, t.Address, t.Network,
	)
	return err
}

// Credit acredita un monto ya expresado en la moneda del usuario y deja la
// transacción de auditoría correspondiente, todo en una sola transacción SQL.
func (s *LedgerService) Credit(userID string, amount float64, currency models.Currency, txType, method string) (*models.Transaction, error) {
	if !currency.IsValid() {
		return nil, ErrUnsupportedCurrency
	}

	unlock := s.Lock(userID)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.CreditTx(tx, userID, amount, false); err != nil {
		return nil, err
	}

	record := &models.Transaction{
		UserID:   userID,
		Type:     txType,
		Method:   method,
		Amount:   amount,
		Currency: currency,
		Status:   models.StatusCompleted,
	}
	if err := s.RecordTx(tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return record, nil
}

// SetTransactionStatus avanza el estado de una transacción. Solo se puede
// salir de pending; completar un depósito acredita el balance y completar un
// retiro lo debita. Un retiro que dejaría el balance negativo marca la
// transacción como fallida y no debita nada.
func (s *LedgerService) SetTransactionStatus(transactionID, status string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.QueryRow(
		`SELECT id, user_id, type, method, amount, currency, status, COALESCE(address, ''), COALESCE(network, ''), created_at
		 FROM transactions WHERE id = ?`,
		transactionID,
	).Scan(&t.ID, &t.UserID, &t.Type, &t.Method, &t.Amount, &t.Currency, &t.Status, &t.Address, &t.Network, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	unlock := s.Lock(t.UserID)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// El estado solo avanza desde pending; una transacción terminal no se
	// vuelve a tocar
	result, err := tx.Exec(
		`UPDATE transactions SET status = ? WHERE id = ? AND status = 'pending'`,
		status, transactionID,
	)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return &t, ErrAlreadyCompleted
	}
	t.Status = status

	if status == models.StatusCompleted {
		switch t.Type {
		case models.TxDeposit:
			if err := s.CreditTx(tx, t.UserID, t.Amount, false); err != nil {
				return nil, err
			}
		case models.TxWithdraw:
			if err := s.DebitTx(tx, t.UserID, t.Amount); err != nil {
				if err != ErrInsufficientFunds {
					return nil, err
				}
				// Sin fondos al momento de aprobar: el retiro queda fallido
				if _, err := tx.Exec(`UPDATE transactions SET status = 'failed' WHERE id = ?`, transactionID); err != nil {
					return nil, err
				}
				t.Status = models.StatusFailed
				if err := tx.Commit(); err != nil {
					return nil, err
				}
				return &t, ErrInsufficientFunds
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}
