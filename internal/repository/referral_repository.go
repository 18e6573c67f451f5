package repository

import (
	"database/sql"

	"github.com/Emannuh254/Forexpro/internal/models"
)

type ReferralRepository struct {
	db *sql.DB
}

func NewReferralRepository(db *sql.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// GetStats resume los bonos del referente. El total de referidos sale del
// contador del usuario porque refleja registros, con o sin bono pagado.
func (r *ReferralRepository) GetStats(userID string) (*models.ReferralStats, error) {
	stats := &models.ReferralStats{}

	err := r.db.QueryRow(`SELECT referrals FROM users WHERE id = ?`, userID).Scan(&stats.TotalReferrals)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0)
		FROM referral_bonuses
		WHERE referrer_id = ?`

	err = r.db.QueryRow(query, userID).Scan(
		&stats.CompletedReferrals,
		&stats.PendingReferrals,
		&stats.TotalBonus,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetHistory lista los usuarios que se registraron con el código del
// referente junto al estado del bono de cada uno
func (r *ReferralRepository) GetHistory(userID string) ([]models.ReferralHistoryEntry, error) {
	query := `
		SELECT u.id, u.name, u.email, u.created_at,
			COALESCE(rb.status, ''), rb.completed_at, COALESCE(rb.amount, 0), COALESCE(rb.currency, '')
		FROM users u
		LEFT JOIN referral_bonuses rb ON u.id = rb.referred_id
		WHERE u.referred_by = (SELECT referral_code FROM users WHERE id = ?)
		ORDER BY u.created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.ReferralHistoryEntry{}
	for rows.Next() {
		var e models.ReferralHistoryEntry
		err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.ReferralDate, &e.BonusStatus, &e.BonusDate, &e.BonusAmount, &e.BonusCurrency)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
