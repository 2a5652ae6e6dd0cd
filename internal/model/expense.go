package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one spending record. Records are created and deleted, never
// edited in place.
type Expense struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	Category  string          `gorm:"index" json:"category"`
	Amount    decimal.Decimal `gorm:"type:numeric" json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
