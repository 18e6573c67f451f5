package repository

import (
	"database/sql"

	"github.com/Emannuh254/Forexpro/internal/models"
	"github.com/google/uuid"
)

const transactionColumns = `id, user_id, type, method, amount, currency, status, COALESCE(address, ''), COALESCE(network, ''), created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTransaction inserta una solicitud de depósito o retiro. Las filas
// que acompañan un cambio de balance las escribe el ledger, no este método.
func (r *TransactionRepository) CreateTransaction(t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.StatusPending
	}

	query := `
		INSERT INTO transactions (id, user_id, type, method, amount, currency, status, address, network)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query, t.ID, t.UserID, t.Type, t.Method, t.Amount, t.Currency, t.Status, t.Address, t.Network)
	return err
}

func (r *TransactionRepository) GetTransaction(id string) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := r.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id).Scan(
		&t.ID, &t.UserID, &t.Type, &t.Method, &t.Amount, &t.Currency, &t.Status, &t.Address, &t.Network, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) GetUserTransactions(userID string) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Method, &t.Amount, &t.Currency, &t.Status, &t.Address, &t.Network, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// GetAllTransactions devuelve todas las transacciones con los datos del
// dueño, para el panel de admin
func (r *TransactionRepository) GetAllTransactions() ([]models.TransactionWithUser, error) {
	query := `
		SELECT t.id, t.user_id, t.type, t.method, t.amount, t.currency, t.status,
			COALESCE(t.address, ''), COALESCE(t.network, ''), t.created_at, u.name, u.email
		FROM transactions t
		JOIN users u ON t.user_id = u.id
		ORDER BY t.created_at DESC`

	return r.queryWithUser(query)
}

// GetPendingWithdrawals lista los retiros a la espera de aprobación
func (r *TransactionRepository) GetPendingWithdrawals() ([]models.TransactionWithUser, error) {
	query := `
		SELECT t.id, t.user_id, t.type, t.method, t.amount, t.currency, t.status,
			COALESCE(t.address, ''), COALESCE(t.network, ''), t.created_at, u.name, u.email
		FROM transactions t
		JOIN users u ON t.user_id = u.id
		WHERE t.type = 'withdraw' AND t.status = 'pending'
		ORDER BY t.created_at DESC`

	return r.queryWithUser(query)
}

func (r *TransactionRepository) queryWithUser(query string) ([]models.TransactionWithUser, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.TransactionWithUser{}
	for rows.Next() {
		var t models.TransactionWithUser
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Method, &t.Amount, &t.Currency, &t.Status,
			&t.Address, &t.Network, &t.CreatedAt, &t.UserName, &t.UserEmail)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// GetStats arma el resumen del panel de admin
func (r *TransactionRepository) GetStats() (*models.PlatformStats, error) {
	stats := &models.PlatformStats{}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE type = 'deposit' AND status = 'pending'),
			COUNT(*) FILTER (WHERE type = 'withdraw' AND status = 'pending'),
			COALESCE(SUM(amount) FILTER (WHERE type = 'deposit' AND status = 'completed'), 0)
		FROM transactions`

	err := r.db.QueryRow(query).Scan(
		&stats.TotalTransactions,
		&stats.PendingDeposits,
		&stats.PendingWithdrawals,
		&stats.CompletedDepositVolume,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
