package database

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func InitDB() error {
	// Crear el directorio database si no existe
	if err := os.MkdirAll("database", 0755); err != nil {
		return err
	}

	var err error
	DB, err = sql.Open("sqlite3", filepath.Join("database", "forexpro.db"))
	if err != nil {
		return err
	}

	if err := CreateTables(DB); err != nil {
		return err
	}

	// Ejecutar migraciones para actualizar el esquema
	return RunMigrations(DB)
}

// CreateTables crea el esquema completo. Los tests lo usan sobre una base
// en memoria.
func CreateTables(db *sql.DB) error {
	// Crear tabla de usuarios
	createUsersTableSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT,
		phone TEXT,
		country TEXT,
		currency TEXT DEFAULT 'KSH',
		balance REAL DEFAULT 0,
		profit REAL DEFAULT 0,
		active_bots INTEGER DEFAULT 0,
		referrals INTEGER DEFAULT 0,
		referral_code TEXT UNIQUE,
		referred_by TEXT,
		role TEXT DEFAULT 'user',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(createUsersTableSQL); err != nil {
		return err
	}

	// Crear tabla de transacciones. Las filas son inmutables salvo status
	createTransactionsTableSQL := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		method TEXT NOT NULL,
		amount REAL NOT NULL,
		currency TEXT DEFAULT 'KSH',
		status TEXT DEFAULT 'pending',
		address TEXT,
		network TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);`

	if _, err := db.Exec(createTransactionsTableSQL); err != nil {
		return err
	}

	// Crear tabla de bots de trading (montos en KSH)
	createBotsTableSQL := `
	CREATE TABLE IF NOT EXISTS trading_bots (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		investment REAL NOT NULL,
		daily_profit REAL NOT NULL,
		total_profit REAL NOT NULL,
		progress INTEGER DEFAULT 0,
		status TEXT DEFAULT 'active',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);`

	if _, err := db.Exec(createBotsTableSQL); err != nil {
		return err
	}

	// Crear tabla de bonos de referido
	createReferralBonusesTableSQL := `
	CREATE TABLE IF NOT EXISTS referral_bonuses (
		id TEXT PRIMARY KEY,
		referrer_id TEXT NOT NULL,
		referred_id TEXT NOT NULL,
		amount REAL NOT NULL,
		currency TEXT DEFAULT 'KSH',
		status TEXT DEFAULT 'pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		completed_at DATETIME,
		FOREIGN KEY(referrer_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY(referred_id) REFERENCES users(id) ON DELETE CASCADE
	);`

	if _, err := db.Exec(createReferralBonusesTableSQL); err != nil {
		return err
	}

	// Crear índices para búsquedas frecuentes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
		`CREATE INDEX IF NOT EXISTS idx_users_referral_code ON users(referral_code);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status);`,
		`CREATE INDEX IF NOT EXISTS idx_bots_user_id ON trading_bots(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_referrals_referrer_id ON referral_bonuses(referrer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_referrals_referred_id ON referral_bonuses(referred_id);`,
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return err
		}
	}

	return nil
}
