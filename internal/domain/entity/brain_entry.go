package entity

import "time"

// BrainEntry is one key/value blob of the brain.
type BrainEntry struct {
	Key       string    `gorm:"column:brain_key;primaryKey"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for the BrainEntry entity.
func (BrainEntry) TableName() string {
	return "brain_entries"
}
