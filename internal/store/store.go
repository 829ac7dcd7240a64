// Package store implements the two persisted collections behind the watcher:
// the watchlist and the favorites bookmark list. Every row carries a revision
// token; removes must present the current token so a stale client cannot
// silently clobber a row it has not seen.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrStaleRevision = errors.New("stale revision")
	ErrDuplicateItem = errors.New("item already tracked")
)

type Store struct {
	db *gorm.DB

	// allowDuplicates permits the same ItemID to appear in the watchlist
	// more than once (the historical behavior).
	allowDuplicates bool
}

func New(db *gorm.DB, allowDuplicates bool) *Store {
	return &Store{
		db:              db,
		allowDuplicates: allowDuplicates,
	}
}

// AddWatchlistEntry inserts a new watchlist row and returns it. The ID is
// time-derived so insertion order is recoverable from the ID alone.
func (s *Store) AddWatchlistEntry(itemID, displayName string) (*models.WatchlistEntry, error) {
	if !s.allowDuplicates {
		var count int64
		if err := s.db.Model(&models.WatchlistEntry{}).Where("item_id = ?", itemID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateItem
		}
	}

	now := time.Now().UTC()
	entry := models.WatchlistEntry{
		ID:          now.Format(time.RFC3339Nano),
		ItemID:      itemID,
		DisplayName: displayName,
		Revision:    uuid.NewString(),
		CreatedAt:   now,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveWatchlistEntry deletes one row. The revision must match the stored
// one; a stale revision fails with ErrStaleRevision and changes nothing.
func (s *Store) RemoveWatchlistEntry(id, revision string) error {
	var entry models.WatchlistEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if entry.Revision != revision {
		return ErrStaleRevision
	}
	return s.db.Where("id = ? AND revision = ?", id, revision).Delete(&models.WatchlistEntry{}).Error
}

// ListWatchlist returns every watchlist row, newest first.
func (s *Store) ListWatchlist() ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	if err := s.db.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ResetWatchlist deletes every watchlist row. Favorites are untouched.
func (s *Store) ResetWatchlist() error {
	return s.db.Where("1 = 1").Delete(&models.WatchlistEntry{}).Error
}

// AddFavorite bookmarks an item. Adding an ItemID that is already bookmarked
// is a no-op that returns the existing row.
func (s *Store) AddFavorite(itemID, displayName string) (*models.FavoriteEntry, error) {
	var existing models.FavoriteEntry
	err := s.db.First(&existing, "item_id = ?", itemID).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	fav := models.FavoriteEntry{
		ID:          fmt.Sprintf("%s_%d", itemID, now.UnixMilli()),
		ItemID:      itemID,
		DisplayName: displayName,
		Revision:    uuid.NewString(),
		CreatedAt:   now,
	}

	if err := s.db.Create(&fav).Error; err != nil {
		return nil, err
	}
	return &fav, nil
}

// RemoveFavorite deletes one bookmark, subject to the same revision check as
// watchlist removes.
func (s *Store) RemoveFavorite(id, revision string) error {
	var fav models.FavoriteEntry
	if err := s.db.First(&fav, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if fav.Revision != revision {
		return ErrStaleRevision
	}
	return s.db.Where("id = ? AND revision = ?", id, revision).Delete(&models.FavoriteEntry{}).Error
}

// GetFavorite looks up one bookmark by ID.
func (s *Store) GetFavorite(id string) (*models.FavoriteEntry, error) {
	var fav models.FavoriteEntry
	if err := s.db.First(&fav, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &fav, nil
}

// ListFavorites returns every bookmark, newest first.
func (s *Store) ListFavorites() ([]models.FavoriteEntry, error) {
	var favs []models.FavoriteEntry
	if err := s.db.Order("created_at DESC").Find(&favs).Error; err != nil {
		return nil, err
	}
	return favs, nil
}

// CountFavorites returns the number of bookmarks.
func (s *Store) CountFavorites() (int64, error) {
	var count int64
	err := s.db.Model(&models.FavoriteEntry{}).Count(&count).Error
	return count, err
}
