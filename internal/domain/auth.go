package domain

import "time"

// PasswordResetToken is a single-use credential for resetting a password.
type PasswordResetToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
