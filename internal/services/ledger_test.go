package services

import (
	"database/sql"
	"sync"
	"testing"

	"github.com/Emannuh254/Forexpro/internal/models"
)

func TestCreditLeavesAuditRow(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	insertUser(t, db, "u1", models.KSH, 1000, "ref-u1")

	record, err := ledger.Credit("u1", 500, models.KSH, models.TxDeposit, "admin")
	if err != nil {
		t.Fatalf("error al acreditar: %v", err)
	}
	if record.Status != models.StatusCompleted {
		t.Errorf("la transacción debe quedar completada: %v", record.Status)
	}

	if balance := userBalance(t, db, "u1"); balance != 1500 {
		t.Errorf("balance = %v, se esperaba 1500", balance)
	}
	if n := countTransactions(t, db, "u1", models.TxDeposit, "admin"); n != 1 {
		t.Errorf("se esperaba 1 fila de auditoría, hay %d", n)
	}
}

func TestCreditUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	if _, err := ledger.Credit("no-existe", 500, models.KSH, models.TxDeposit, "admin"); err != ErrUserNotFound {
		t.Errorf("se esperaba ErrUserNotFound, se obtuvo %v", err)
	}

	// Sin usuario no debe quedar fila de auditoría
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("no debe quedar ninguna transacción, hay %d", count)
	}
}

func TestCompleteDepositCreditsBalance(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	insertUser(t, db, "u1", models.KSH, 0, "ref-u1")
	mustInsertPendingTx(t, db, "tx1", "u1", models.TxDeposit, 5000)

	transaction, err := ledger.SetTransactionStatus("tx1", models.StatusCompleted)
	if err != nil {
		t.Fatalf("error al completar el depósito: %v", err)
	}
	if transaction.Status != models.StatusCompleted {
		t.Errorf("status = %v, se esperaba completed", transaction.Status)
	}
	if balance := userBalance(t, db, "u1"); balance != 5000 {
		t.Errorf("balance = %v, se esperaba 5000", balance)
	}

	// Repetir la aprobación es un no-op
	if _, err := ledger.SetTransactionStatus("tx1", models.StatusCompleted); err != ErrAlreadyCompleted {
		t.Fatalf("se esperaba ErrAlreadyCompleted, se obtuvo %v", err)
	}
	if balance := userBalance(t, db, "u1"); balance != 5000 {
		t.Errorf("repetir la aprobación no debe acreditar de nuevo: %v", balance)
	}
}

func TestCompleteWithdrawWithoutFundsFails(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	insertUser(t, db, "u1", models.KSH, 1000, "ref-u1")
	mustInsertPendingTx(t, db, "tx1", "u1", models.TxWithdraw, 5000)

	transaction, err := ledger.SetTransactionStatus("tx1", models.StatusCompleted)
	if err != ErrInsufficientFunds {
		t.Fatalf("se esperaba ErrInsufficientFunds, se obtuvo %v", err)
	}
	if transaction.Status != models.StatusFailed {
		t.Errorf("el retiro debe quedar fallido: %v", transaction.Status)
	}
	if balance := userBalance(t, db, "u1"); balance != 1000 {
		t.Errorf("el balance no debe cambiar: %v", balance)
	}
}

func TestRejectedTransactionDoesNotTouchBalance(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	insertUser(t, db, "u1", models.KSH, 1000, "ref-u1")
	mustInsertPendingTx(t, db, "tx1", "u1", models.TxDeposit, 5000)

	transaction, err := ledger.SetTransactionStatus("tx1", models.StatusFailed)
	if err != nil {
		t.Fatalf("error al rechazar: %v", err)
	}
	if transaction.Status != models.StatusFailed {
		t.Errorf("status = %v, se esperaba failed", transaction.Status)
	}
	if balance := userBalance(t, db, "u1"); balance != 1000 {
		t.Errorf("rechazar no debe tocar el balance: %v", balance)
	}
}

// Dos retiros pendientes por el balance completo: aprobar ambos a la vez debe
// debitar exactamente uno y marcar el otro como fallido.
func TestConcurrentFullBalanceWithdrawals(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	insertUser(t, db, "u1", models.KSH, 1000, "ref-u1")
	mustInsertPendingTx(t, db, "tx1", "u1", models.TxWithdraw, 1000)
	mustInsertPendingTx(t, db, "tx2", "u1", models.TxWithdraw, 1000)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, id := range []string{"tx1", "tx2"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, results[i] = ledger.SetTransactionStatus(id, models.StatusCompleted)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else if err != ErrInsufficientFunds {
			t.Fatalf("error inesperado: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("debe aprobarse exactamente un retiro, se aprobaron %d", succeeded)
	}

	if balance := userBalance(t, db, "u1"); balance != 0 {
		t.Errorf("balance final = %v, se esperaba 0", balance)
	}

	var failed int
	if err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE status = 'failed'`).Scan(&failed); err != nil {
		t.Fatal(err)
	}
	if failed != 1 {
		t.Errorf("debe quedar exactamente un retiro fallido, hay %d", failed)
	}
}

func TestSetStatusUnknownTransaction(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(db)

	if _, err := ledger.SetTransactionStatus("no-existe", models.StatusCompleted); err != ErrTransactionNotFound {
		t.Errorf("se esperaba ErrTransactionNotFound, se obtuvo %v", err)
	}
}

func mustInsertPendingTx(t *testing.T, db *sql.DB, id, userID, txType string, amount float64) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO transactions (id, user_id, type, method, amount, currency, status)
		 VALUES (?, ?, ?, 'mpesa', ?, 'KSH', 'pending')`,
		id, userID, txType, amount,
	)
	if err != nil {
		t.Fatalf("error al insertar la transacción %s: %v", id, err)
	}
}
