package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/catalog"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/models"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/services"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/store"
)

type WatchlistHandler struct {
	store      *store.Store
	catalog    *catalog.Catalog
	projection *services.Projection
	refresher  *services.Refresher
}

func NewWatchlistHandler(st *store.Store, cat *catalog.Catalog, projection *services.Projection, refresher *services.Refresher) *WatchlistHandler {
	return &WatchlistHandler{
		store:      st,
		catalog:    cat,
		projection: projection,
		refresher:  refresher,
	}
}

// GetWatchlist returns the projection sorted by descending profit. Rows whose
// prices have not arrived yet carry no summary and render as pending.
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, h.projection.SortedView())
}

func (h *WatchlistHandler) AddToWatchlist(c *gin.Context) {
	var req models.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = h.catalog.DisplayName(req.ItemID, catalog.DefaultLocale)
	}

	entry, err := h.store.AddWatchlistEntry(req.ItemID, displayName)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateItem) {
			c.JSON(http.StatusConflict, gin.H{"error": "item is already on the watchlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Fetch prices for the new row without blocking the response.
	go h.refresher.RefreshNow(context.Background())

	c.JSON(http.StatusCreated, entry)
}

func (h *WatchlistHandler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	revision := c.Query("rev")
	if revision == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'rev' is required"})
		return
	}

	if err := h.store.RemoveWatchlistEntry(id, revision); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		case errors.Is(err, store.ErrStaleRevision):
			c.JSON(http.StatusConflict, gin.H{"error": "revision is stale, reload and retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	go h.refresher.RefreshNow(context.Background())

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Reset deletes every watchlist entry and clears all summaries. Favorites
// are untouched.
func (h *WatchlistHandler) Reset(c *gin.Context) {
	if err := h.projection.ResetAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// Refresh starts a full aggregation pass in the background.
func (h *WatchlistHandler) Refresh(c *gin.Context) {
	go h.refresher.RefreshNow(context.Background())
	c.JSON(http.StatusAccepted, gin.H{"status": "refreshing"})
}

// RefreshEntry queues one entry for an urgent price refresh.
func (h *WatchlistHandler) RefreshEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry id is required"})
		return
	}

	position := h.refresher.QueueRefresh(id)
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "position": position})
}
