package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/middleware"
)

type subscribeRequest struct {
	PersonID int64 `json:"person_id" binding:"required,gt=0"`
}

type paymentRequest struct {
	Amount int64 `json:"amount"`
}

// Subscribe registers a person on a trip.
func (h *Handlers) Subscribe(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req subscribeRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	rec, err := h.participations(c).Subscribe(c.Request.Context(), req.PersonID, tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handlers) GetParticipation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rec, err := h.participations(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handlers) ApproveParticipation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rec, err := h.participations(c).Approve(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handlers) RejectParticipation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rec, err := h.participations(c).Reject(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RecordPayment adds a manually collected amount to the record.
func (h *Handlers) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req paymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	rec, err := h.participations(c).RecordPayment(c.Request.Context(), middleware.ActorFromContext(c), id, req.Amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetReceipt returns the payment receipt PDF (inline).
func (h *Handlers) GetReceipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pdfBytes, filename, err := h.receipts(c).GenerateReceipt(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
