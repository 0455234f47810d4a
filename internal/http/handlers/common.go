package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid payload: "+err.Error(), nil)
		return false
	}
	return true
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, invalidParam(name, domain.ReasonInvalidID, fmt.Sprintf("%s must be a positive integer", name), err))
		return 0, false
	}
	return id, true
}

func invalidParam(field, code, msg string, err error) domain.ValidationError {
	return domain.ValidationError{
		Code:  code,
		Index: -1,
		Other: -1,
		Field: field,
		Msg:   msg,
		Err:   err,
	}
}
