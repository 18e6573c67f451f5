package models

import (
	"time"
)

// Roles de usuario
const (
	RoleUser  = "user"
	RoleDemo  = "demo"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"-"` // El "-" evita que se serialice en JSON
	Phone        string    `json:"phone,omitempty"`
	Country      string    `json:"country,omitempty"`
	Currency     Currency  `json:"currency"`
	Balance      float64   `json:"balance"`
	Profit       float64   `json:"profit"`
	ActiveBots   int       `json:"active_bots"`
	Referrals    int       `json:"referrals"`
	ReferralCode string    `json:"referral_code"`
	ReferredBy   string    `json:"referred_by,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
