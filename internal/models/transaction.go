package models

import "time"

// Tipos de transacción
const (
	TxDeposit  = "deposit"
	TxWithdraw = "withdraw"
	TxBonus    = "bonus"
	TxProfit   = "profit"
)

// Estados de transacción. El estado solo avanza: pending -> completed|failed
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Transaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Method    string    `json:"method"`
	Amount    float64   `json:"amount"`
	Currency  Currency  `json:"currency"`
	Status    string    `json:"status"`
	Address   string    `json:"address,omitempty"`
	Network   string    `json:"network,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionWithUser es la vista de admin: la transacción junto a los
// datos del dueño
type TransactionWithUser struct {
	Transaction
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// PlatformStats resume la actividad para el panel de admin
type PlatformStats struct {
	TotalUsers             int     `json:"total_users"`
	TotalTransactions      int     `json:"total_transactions"`
	PendingDeposits        int     `json:"pending_deposits"`
	PendingWithdrawals     int     `json:"pending_withdrawals"`
	ActiveBots             int     `json:"active_bots"`
	CompletedDepositVolume float64 `json:"completed_deposit_volume"`
}
