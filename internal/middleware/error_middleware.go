package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
	"github.com/yigit/clubrecruit/internal/pkg/logger"
)

// HandleAPIError maps an error to its HTTP status and writes the error envelope.
// Messages of apperrors.CustomError are shown to the client; internal errors never are.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classify(err)

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}

	_ = c.Error(err)
	c.JSON(status, dto.APIResponse{
		Error: dto.NewErrorDetail(code, message),
	})
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, publicMessage(err, "Resource not found")
	case apperrors.KindForbidden:
		return http.StatusForbidden, dto.ErrorCodeForbidden, publicMessage(err, "Permission denied")
	case apperrors.KindConflict:
		return http.StatusConflict, dto.ErrorCodeConflict, publicMessage(err, "Conflict")
	case apperrors.KindValidation:
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, publicMessage(err, "Validation failed")
	case apperrors.KindUnauthorized:
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
		case errors.Is(err, apperrors.ErrTokenInvalid):
			return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
		default:
			return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
		}
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}

// publicMessage prefers a CustomError message, then the sentinel text, then fallback
func publicMessage(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
