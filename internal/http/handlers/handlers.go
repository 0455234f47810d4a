package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/middleware"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/services"
)

// Handlers carries the dependencies shared by every route. Services are built per
// request so each one logs with the request id.
type Handlers struct {
	Store                     services.Store
	Logger                    *zap.Logger
	RequireApprovalForPayment bool
	// Ping reports storage health; nil means always healthy.
	Ping func(ctx context.Context) error
}

func (h *Handlers) pricing(c *gin.Context) services.PricingService {
	return services.PricingService{
		Things:    h.Store,
		Offers:    h.Store,
		People:    h.Store,
		Logger:    h.Logger,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handlers) participations(c *gin.Context) services.ParticipationService {
	return services.ParticipationService{
		Things:                    h.Store,
		People:                    h.Store,
		Participations:            h.Store,
		RequireApprovalForPayment: h.RequireApprovalForPayment,
		Logger:                    h.Logger,
		RequestID:                 middleware.GetRequestID(c),
	}
}

func (h *Handlers) demand(c *gin.Context) services.DemandService {
	return services.DemandService{
		Participations: h.Store,
		Orders:         h.Store,
		Logger:         h.Logger,
		RequestID:      middleware.GetRequestID(c),
	}
}

func (h *Handlers) receipts(c *gin.Context) services.ReceiptService {
	return services.ReceiptService{
		Things:         h.Store,
		People:         h.Store,
		Participations: h.Store,
		Logger:         h.Logger,
		RequestID:      middleware.GetRequestID(c),
	}
}
