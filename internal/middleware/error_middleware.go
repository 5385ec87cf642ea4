package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/logger"
)

// HandleAPIError maps a service error onto its status code and writes the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("requestID", GetRequestID(c)).
			Int("status", status).
			Msg("Request failed")
	}
	abortWithError(c, status, detail)
}

// abortWithError writes the error envelope and stops the handler chain
func abortWithError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Success:   false,
		Error:     detail,
		Timestamp: time.Now(),
	})
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)
	message := func(fallback string) string {
		if hasCustom && custom.Message != "" {
			return custom.Message
		}
		return fallback
	}

	var genErr *apperrors.GenerationError

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		if hasCustom && len(custom.Fields) > 0 {
			return http.StatusBadRequest, dto.NewFieldErrorDetail(custom.Fields)
		}
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message("Validation failed"))
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, message("Bad request"))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, message(apperrors.MsgNoActiveAccount))
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token is expired")
	case errors.Is(err, apperrors.ErrTokenNotFound), errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token is invalid or revoked")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Token is invalid or expired")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication credentials were not provided.")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message("You do not have permission to perform this action."))

	case errors.Is(err, apperrors.ErrProfileNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeProfileNotFound, message(apperrors.MsgProfileNotFound))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Not found."))

	case errors.As(err, &genErr):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, genErr.Error()).
			WithDetails(genErr.Tried)
	case errors.Is(err, apperrors.ErrGenerationUnavailable):
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeGenerationUnavailable, message(apperrors.MsgGenAIUnavailable))
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, err.Error()).
		WithSeverity(dto.ErrorSeverityCritical)
}

// MethodNotAllowed answers routes that exist under another method
func MethodNotAllowed(c *gin.Context) {
	abortWithError(c, http.StatusMethodNotAllowed,
		dto.NewErrorDetail(dto.ErrorCodeMethodNotAllowed, "Method \""+c.Request.Method+"\" not allowed."))
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	abortWithError(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Not found."))
}
