package dto

import (
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SyncResult reports the outcome of a pull from the remote mirror.
type SyncResult struct {
	Direction     domain.SyncDirection `json:"direction"`
	LocalEntries  int                  `json:"localEntries"`
	RemoteEntries int                  `json:"remoteEntries"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.SyncStatus    `json:"status"`
}
