package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/services"
)

// changeWaitTimeout bounds a long-poll on /api/changes.
const changeWaitTimeout = 25 * time.Second

type PriceHandler struct {
	refresher  *services.Refresher
	projection *services.Projection
}

func NewPriceHandler(refresher *services.Refresher, projection *services.Projection) *PriceHandler {
	return &PriceHandler{
		refresher:  refresher,
		projection: projection,
	}
}

// GetPriceStatus returns refresher timing and queue state.
func (h *PriceHandler) GetPriceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.refresher.GetStatus())
}

// WaitForChange long-polls until the projection changes, the timeout passes,
// or the client goes away. Clients re-poll after each response.
func (h *PriceHandler) WaitForChange(c *gin.Context) {
	select {
	case <-h.projection.Changed():
		c.JSON(http.StatusOK, gin.H{"changed": true})
	case <-time.After(changeWaitTimeout):
		c.JSON(http.StatusOK, gin.H{"changed": false})
	case <-c.Request.Context().Done():
		c.Status(http.StatusNoContent)
	}
}
