package model

import "time"

// TaskStatus holds the mutable per-task state, keyed by the seed template
// key. Keys from an older seed version may linger; they are ignored on read.
type TaskStatus struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Done      bool      `gorm:"default:false" json:"done"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
