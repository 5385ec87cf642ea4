// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/middleware"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
)

// pathID parses the :id route parameter; an invalid id is reported as a 404 since
// no such object can exist.
func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.ErrResourceNotFound)
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric filter such as ?job_posting=3
func queryID(ctx *gin.Context, name string) (*int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name, "A valid integer is required."))
		return nil, false
	}
	return &id, true
}

func ok(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(data))
}

func created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(data))
}

func noContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}
