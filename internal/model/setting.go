package model

import "time"

// Setting is one persisted key-value entry. The original app kept these
// values in browser storage; here they share a single table.
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Well-known setting keys.
const (
	SettingWeddingDate   = "weddingDate"   // ISO date string
	SettingWeddingBudget = "weddingBudget" // numeric string
	SettingLegacyStatus  = "taskStatus"    // deprecated boolean map, migration only
)
