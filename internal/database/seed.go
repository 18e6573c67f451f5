package database

import (
	"database/sql"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin crea la cuenta de administrador si todavía no existe
func SeedAdmin(db *sql.DB, email, password string) error {
	var exists int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`INSERT INTO users (id, name, email, password, role, balance, currency)
		 VALUES (?, 'Admin User', ?, ?, 'admin', 1000000, 'USD')`,
		uuid.NewString(), email, string(hashedPassword),
	)
	if err != nil {
		return err
	}

	log.Println("Usuario administrador creado")
	return nil
}
