package models

import (
	"database/sql"
	"time"
)

// ReferralStats resume los referidos de un usuario
type ReferralStats struct {
	TotalReferrals     int     `json:"total_referrals"`
	CompletedReferrals int     `json:"completed_referrals"`
	PendingReferrals   int     `json:"pending_referrals"`
	TotalBonus         float64 `json:"total_bonus"`
}

// ReferralHistoryEntry es una fila del historial de referidos: el usuario
// referido junto al estado de su bono
type ReferralHistoryEntry struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	ReferralDate  time.Time    `json:"referral_date"`
	BonusStatus   string       `json:"bonus_status,omitempty"`
	BonusDate     sql.NullTime `json:"bonus_date,omitempty"`
	BonusAmount   float64      `json:"bonus_amount"`
	BonusCurrency Currency     `json:"bonus_currency,omitempty"`
}

// ReferralBonus queda pendiente hasta que el referido hace su primer
// depósito que supera el mínimo configurado. El monto se guarda en la
// moneda del referente.
type ReferralBonus struct {
	ID          string       `json:"id"`
	ReferrerID  string       `json:"referrer_id"`
	ReferredID  string       `json:"referred_id"`
	Amount      float64      `json:"amount"`
	Currency    Currency     `json:"currency"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt sql.NullTime `json:"completed_at,omitempty"`
}
