package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
	}
}

// SearchItems returns up to 10 catalog items whose localized name contains
// the query.
func (h *CatalogHandler) SearchItems(c *gin.Context) {
	query := c.Query("q")
	locale := c.Query("locale")

	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	result := h.catalog.Search(query, locale)
	c.JSON(http.StatusOK, result)
}
