package models

import "time"

// AdminSession represents a signed-in operator of the admin surface
type AdminSession struct {
	Token        string    `json:"token"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// IsExpired checks if session has expired at the given instant
func (s *AdminSession) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
