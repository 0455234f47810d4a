package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/middleware"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. The code field carries
// the machine-readable reason.
func RespondDomainError(c *gin.Context, err error) {
	var v domain.ValidationError
	var s domain.StateError
	switch {
	case errors.As(err, &v):
		respondError(c, http.StatusBadRequest, v.Code, err.Error(), validationDetails(v))
	case errors.As(err, &s):
		respondError(c, http.StatusConflict, s.Code, err.Error(), nil)
	case domain.IsAuth(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func validationDetails(v domain.ValidationError) gin.H {
	d := gin.H{}
	if v.Index >= 0 {
		d["index"] = v.Index
	}
	if v.Other >= 0 {
		d["other_index"] = v.Other
	}
	if v.OfferID != 0 {
		d["offer_id"] = v.OfferID
	}
	if v.Field != "" {
		d["field"] = v.Field
	}
	if len(d) == 0 {
		return nil
	}
	return d
}
