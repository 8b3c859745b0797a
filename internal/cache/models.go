// Package cache implements the persisted diagnostics cache: a gorm-backed
// store keyed by (file_path, source_hash, settings_hash). A changed
// settings_hash is simply a cache miss; rows are dropped wholesale only by
// InvalidateAll.
//
// One row per analyzed file, brought up with gorm.Open + AutoMigrate. Entry
// declares its own ID and timestamp fields rather than embedding gorm.Model.
package cache

import (
	"time"

	"gorm.io/datatypes"
)

// Entry is one cached analysis result for a single file.
type Entry struct {
	ID            uint   `gorm:"primaryKey"`
	FilePath      string `gorm:"uniqueIndex:idx_cache_key"`
	SourceHash    string `gorm:"uniqueIndex:idx_cache_key"`
	SettingsHash  string `gorm:"uniqueIndex:idx_cache_key"`
	Diagnostics   datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName keeps the cache table name stable across gorm's default
// pluralization rules, in case Entry is ever renamed.
func (Entry) TableName() string { return "cache_entries" }
