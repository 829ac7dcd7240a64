package models

import (
	"time"
)

// FavoriteEntry is a bookmarked item for quick re-adding to the watchlist.
// At most one favorite exists per ItemID.
type FavoriteEntry struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ItemID      string    `json:"item_id" gorm:"not null;uniqueIndex"`
	DisplayName string    `json:"display_name"`
	Revision    string    `json:"revision" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

type AddFavoriteRequest struct {
	ItemID      string `json:"item_id" binding:"required"`
	DisplayName string `json:"display_name"`
}
