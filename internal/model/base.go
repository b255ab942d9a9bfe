package model

import "time"

// KVEntry is one row of the key-value table backing persisted dashboard state
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;type:varchar(191);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (KVEntry) TableName() string {
	return "kv_entries"
}
