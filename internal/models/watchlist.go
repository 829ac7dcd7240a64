package models

import (
	"time"
)

// WatchlistEntry is one tracked item. The same ItemID may appear more than
// once unless duplicate protection is enabled in config.
type WatchlistEntry struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ItemID      string    `json:"item_id" gorm:"not null;index"`
	DisplayName string    `json:"display_name"`
	Revision    string    `json:"revision" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

type AddWatchlistRequest struct {
	ItemID      string `json:"item_id" binding:"required"`
	DisplayName string `json:"display_name"`
}

// WatchlistRow is a projection row: the persisted entry plus the latest
// price summary, if one has been computed this session.
type WatchlistRow struct {
	Entry   WatchlistEntry `json:"entry"`
	Summary *PriceSummary  `json:"summary,omitempty"`
}
