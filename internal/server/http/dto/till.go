package dto

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// OpenTillRequest carries the opening cash float.
type OpenTillRequest struct {
	OpeningFloat decimal.Decimal `json:"openingFloat"`
}

// CloseTillResponse reports the closed session and its reconciliation.
type CloseTillResponse struct {
	Session      model.TillSession          `json:"session"`
	Report       model.ReconciliationReport `json:"report"`
	ArchiveRef   string                     `json:"archiveRef"`
	PrintWarning string                     `json:"printWarning,omitempty"`
}
