package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/config"
	h "github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/handlers"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/middleware"
)

// AdminRoles may change offers and drive the participation ledger.
var AdminRoles = []string{"admin", "superadmin"}

func NewRouter(env config.Env, handlers *h.Handlers, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	admin := []gin.HandlerFunc{middleware.Auth([]byte(env.JWTSecret)), middleware.RequireRoles(AdminRoles...)}
	adminOnly := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), handler)
	}

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/routes", h.Routes)

		// Sellable things: prices and special offers
		things := api.Group("/things")
		things.GET("/:id/price", handlers.GetPrice)
		things.GET("/:id/offers", handlers.ListOffers)
		things.PUT("/:id/offers", adminOnly(handlers.ReplaceOffers)...)

		// Trip participation ledger
		trips := api.Group("/trips")
		trips.POST("/:id/participations", handlers.Subscribe)

		participations := api.Group("/participations")
		participations.GET("/:id", handlers.GetParticipation)
		participations.GET("/:id/receipt", handlers.GetReceipt)
		participations.PUT("/:id/approve", adminOnly(handlers.ApproveParticipation)...)
		participations.PUT("/:id/reject", adminOnly(handlers.RejectParticipation)...)
		participations.POST("/:id/payments", adminOnly(handlers.RecordPayment)...)

		// Reports
		reports := api.Group("/reports")
		reports.GET("/demand", handlers.DemandReport)
	}

	h.SetRouter(r)
	return r
}
