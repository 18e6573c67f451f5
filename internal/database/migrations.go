package database

import (
	"database/sql"
	"log"
)

// RunMigrations ejecuta las migraciones necesarias para actualizar el esquema de la base de datos
func RunMigrations(db *sql.DB) error {
	log.Println("Ejecutando migraciones de la base de datos...")

	// Migración para instalaciones anteriores sin columnas de red y
	// dirección en las transacciones
	addTxColumnsSQL := `
	ALTER TABLE transactions ADD COLUMN address TEXT;
	ALTER TABLE transactions ADD COLUMN network TEXT;
	`

	if _, err := db.Exec(addTxColumnsSQL); err != nil {
		// No retornamos error porque SQLite puede dar error si la columna ya existe
		// y queremos que la migración continúe
		log.Printf("Columnas address/network ya existen: %v", err)
	}

	// Migración para añadir completed_at a los bonos de referido
	addCompletedAtSQL := `ALTER TABLE referral_bonuses ADD COLUMN completed_at DATETIME;`

	if _, err := db.Exec(addCompletedAtSQL); err != nil {
		log.Printf("Columna completed_at ya existe: %v", err)
	}

	return nil
}
