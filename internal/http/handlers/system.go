package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func (h *Handlers) Health(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			respondError(c, http.StatusServiceUnavailable, "storage_unavailable", "storage unavailable: "+err.Error(), nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "router_not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method": rt.Method,
			"path":   rt.Path,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
