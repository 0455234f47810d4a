package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DemandReport returns per-thing demand counts. Query: kind=trip|store_item.
func (h *Handlers) DemandReport(c *gin.Context) {
	kind := c.Query("kind")
	rows, err := h.demand(c).Report(c.Request.Context(), kind)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "items": rows})
}
