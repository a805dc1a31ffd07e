package dto

import "time"

// UnlockRequest carries the PIN typed on the lock screen.
type UnlockRequest struct {
	PIN string `json:"pin" binding:"required,len=6,numeric"`
}

// UnlockResponse is returned after a successful unlock.
type UnlockResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// LockStatus describes the PIN lock state.
type LockStatus struct {
	Enabled       bool `json:"enabled"`
	FailedAttempt int  `json:"failedAttempts"`
	MaxAttempts   int  `json:"maxAttempts"`
	Blocked       bool `json:"blocked"`
}
