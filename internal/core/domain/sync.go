package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncState is the remote mirror status shown to the user.
type SyncState string

const (
	SyncDisconnected SyncState = "disconnected"
	SyncSyncing      SyncState = "syncing"
	SyncSynced       SyncState = "synced"
	SyncError        SyncState = "error"
)

// SyncStatus reports the last known state of the remote mirror for an owner.
type SyncStatus struct {
	State     SyncState  `json:"state"`
	LastSync  *time.Time `json:"lastSync,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

// SyncDirection tells which side won a pull.
type SyncDirection string

const (
	SyncNoChange   SyncDirection = "none"
	SyncTookRemote SyncDirection = "remote"
	SyncPushed     SyncDirection = "local"
)

// RegisterEvent is published after every committed mutation.
type RegisterEvent struct {
	OwnerID    string          `json:"ownerId"`
	Action     string          `json:"action"`
	Balance    decimal.Decimal `json:"balance"`
	EntryCount int             `json:"entryCount"`
	At         time.Time       `json:"at"`
}
