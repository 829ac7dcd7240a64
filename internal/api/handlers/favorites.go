package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/catalog"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/metrics"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/models"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/services"
	"github.com/DorianAlbert/AlbionSearchPrice/internal/store"
)

type FavoritesHandler struct {
	store     *store.Store
	catalog   *catalog.Catalog
	refresher *services.Refresher
}

func NewFavoritesHandler(st *store.Store, cat *catalog.Catalog, refresher *services.Refresher) *FavoritesHandler {
	return &FavoritesHandler{
		store:     st,
		catalog:   cat,
		refresher: refresher,
	}
}

func (h *FavoritesHandler) GetFavorites(c *gin.Context) {
	favs, err := h.store.ListFavorites()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.FavoritesSize.Set(float64(len(favs)))
	c.JSON(http.StatusOK, favs)
}

// AddFavorite bookmarks an item. Bookmarking an item that is already a
// favorite returns the existing record unchanged.
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	var req models.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = h.catalog.DisplayName(req.ItemID, catalog.DefaultLocale)
	}

	fav, err := h.store.AddFavorite(req.ItemID, displayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, fav)
}

func (h *FavoritesHandler) DeleteFavorite(c *gin.Context) {
	id := c.Param("id")
	revision := c.Query("rev")
	if revision == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'rev' is required"})
		return
	}

	if err := h.store.RemoveFavorite(id, revision); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
		case errors.Is(err, store.ErrStaleRevision):
			c.JSON(http.StatusConflict, gin.H{"error": "revision is stale, reload and retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// PromoteFavorite adds a bookmarked item back onto the watchlist.
func (h *FavoritesHandler) PromoteFavorite(c *gin.Context) {
	id := c.Param("id")

	fav, err := h.store.GetFavorite(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.store.AddWatchlistEntry(fav.ItemID, fav.DisplayName)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateItem) {
			c.JSON(http.StatusConflict, gin.H{"error": "item is already on the watchlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go h.refresher.RefreshNow(context.Background())

	c.JSON(http.StatusCreated, entry)
}
