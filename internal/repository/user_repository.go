package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"

	"github.com/Emannuh254/Forexpro/internal/models"
)

const userColumns = `id, name, email, COALESCE(password, ''), COALESCE(phone, ''), COALESCE(country, ''),
	currency, balance, profit, active_bots, referrals, COALESCE(referral_code, ''), COALESCE(referred_by, ''),
	role, created_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GenerateReferralCode genera el código único que se asigna al crear la cuenta
func GenerateReferralCode() string {
	b := make([]byte, 5)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func (r *UserRepository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password, phone, country, currency, balance, referral_code, referred_by, role)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.Phone,
		user.Country,
		user.Currency,
		user.Balance,
		user.ReferralCode,
		user.ReferredBy,
		user.Role,
	)
	return err
}

func (r *UserRepository) GetUserById(id string) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepository) GetUserByReferralCode(code string) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE referral_code = ?`, code)
	return scanUser(row)
}

func (r *UserRepository) GetAllUsers() ([]models.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateProfile guarda los campos editables del perfil. El balance viene
// incluido porque un cambio de moneda lo convierte.
func (r *UserRepository) UpdateProfile(user *models.User) error {
	query := `
		UPDATE users
		SET name = ?, email = ?, phone = ?, country = ?, currency = ?, balance = ?
		WHERE id = ?`

	_, err := r.db.Exec(query, user.Name, user.Email, user.Phone, user.Country, user.Currency, user.Balance, user.ID)
	return err
}

// SetBalance fija el balance de un usuario (solo admin)
func (r *UserRepository) SetBalance(userID string, balance float64) error {
	result, err := r.db.Exec(`UPDATE users SET balance = ? WHERE id = ?`, balance, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) CountUsers() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role != 'admin'`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.Country,
		&user.Currency,
		&user.Balance,
		&user.Profit,
		&user.ActiveBots,
		&user.Referrals,
		&user.ReferralCode,
		&user.ReferredBy,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
