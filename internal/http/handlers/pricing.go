package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/middleware"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/utils"
)

type replaceOffersRequest struct {
	Offers []models.OfferDraft `json:"offers" binding:"required"`
}

// GetPrice resolves the effective price. Query: tier or person_id, optional at
// (defaults to now).
func (h *Handlers) GetPrice(c *gin.Context) {
	thingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var at time.Time
	if raw := strings.TrimSpace(c.Query("at")); raw != "" {
		t, err := utils.ParseTimestamp(raw)
		if err != nil {
			RespondDomainError(c, invalidParam("at", domain.ReasonInvalidRange, err.Error(), err))
			return
		}
		at = t
	}

	svc := h.pricing(c)
	var (
		quote models.PriceQuote
		err   error
	)
	if raw := strings.TrimSpace(c.Query("person_id")); raw != "" && c.Query("tier") == "" {
		personID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || personID <= 0 {
			RespondDomainError(c, invalidParam("person_id", domain.ReasonInvalidID, "person_id must be a positive integer", perr))
			return
		}
		quote, err = svc.QuoteForPerson(c.Request.Context(), thingID, personID, at)
	} else {
		tier := models.TierNormal
		if raw := c.Query("tier"); raw != "" {
			parsed, perr := models.ParsePricingTier(raw)
			if perr != nil {
				RespondDomainError(c, invalidParam("tier", domain.ReasonInvalidTier, perr.Error(), perr))
				return
			}
			tier = parsed
		}
		quote, err = svc.Quote(c.Request.Context(), thingID, tier, at)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handlers) ListOffers(c *gin.Context) {
	thingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	offers, err := h.pricing(c).ListOffers(c.Request.Context(), thingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thing_id": thingID, "offers": offers})
}

// ReplaceOffers swaps the whole offer set of a thing after validating it.
func (h *Handlers) ReplaceOffers(c *gin.Context) {
	thingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req replaceOffersRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	saved, err := h.pricing(c).ReplaceOffers(c.Request.Context(), middleware.ActorFromContext(c), thingID, req.Offers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thing_id": thingID, "offers": saved})
}
