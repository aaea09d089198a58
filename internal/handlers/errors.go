package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dimitrije/securevault-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

// respondError writes the status for a service error. Anything unrecognised
// is logged and answered with fallback as a 500.
func respondError(c *drift.Context, logger *slog.Logger, err error, fallback string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.BadRequest(ve.Error())
	case errors.Is(err, services.ErrEmailTaken):
		_ = c.JSON(http.StatusConflict, map[string]string{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthorized):
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrNotVerified):
		c.Forbidden("please verify your account first")
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrVaultRecordNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrInvalidOrExpiredCode),
		errors.Is(err, services.ErrAlreadyVerified):
		c.BadRequest(err.Error())
	default:
		logger.ErrorContext(c.Request.Context(), fallback, "error", err)
		c.InternalServerError(fallback)
	}
}
