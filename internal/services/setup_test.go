package services

import (
	"database/sql"
	"testing"

	"github.com/Emannuh254/Forexpro/internal/config"
	"github.com/Emannuh254/Forexpro/internal/database"
	"github.com/Emannuh254/Forexpro/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB abre una base en memoria con el esquema completo. Una sola
// conexión para que la base en memoria sea la misma en todas las goroutines.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("error al abrir la base de prueba: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := database.CreateTables(db); err != nil {
		t.Fatalf("error al crear las tablas: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                  "8080",
		JWTSecret:             "test-secret",
		USDToKSH:              150.0,
		SignupBonusKSH:        200,
		MinReferralDepositKSH: 10000,
		DemoBalanceUSD:        66.67,
		DepositAddress:        "0x081fc7d993439f0aa44e8d9514c00d0b560fb940",
		DepositNetwork:        "BSC",
		BotCycleDays:          30,
	}
}

func insertUser(t *testing.T, db *sql.DB, id string, currency models.Currency, balance float64, referralCode string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO users (id, name, email, currency, balance, referral_code)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, "Usuario "+id, id+"@test.com", currency, balance, referralCode,
	)
	if err != nil {
		t.Fatalf("error al insertar usuario %s: %v", id, err)
	}
}

func userBalance(t *testing.T, db *sql.DB, id string) float64 {
	t.Helper()

	var balance float64
	if err := db.QueryRow(`SELECT balance FROM users WHERE id = ?`, id).Scan(&balance); err != nil {
		t.Fatalf("error al leer el balance de %s: %v", id, err)
	}
	return balance
}

func countTransactions(t *testing.T, db *sql.DB, userID, txType, method string) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE user_id = ? AND type = ? AND method = ?`,
		userID, txType, method,
	).Scan(&count)
	if err != nil {
		t.Fatalf("error al contar transacciones: %v", err)
	}
	return count
}
