package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kariqs/netshop-api/models"
	"github.com/Kariqs/netshop-api/storage"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrBrokenReference),
		errors.Is(err, models.ErrUnknownVariant):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateSlug),
		errors.Is(err, models.ErrCartCheckedOut):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidBuyingType),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrImageTooSmall),
		errors.Is(err, storage.ErrImageTooBig),
		errors.Is(err, storage.ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	// unmapped categories land here too: the variant table is out of step
	// with the stored data, which is a deployment defect
	return http.StatusInternalServerError
}

// sendServiceError answers with the status matching err. Server-side
// failures are logged and hidden behind a generic message.
func sendServiceError(ctx *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(ctx.Request.Context(), "request failed", "path", ctx.FullPath(), "error", err)
		ctx.Error(err)
		sendErrorResponse(ctx, status, msgInternalServerError)
		return
	}
	sendErrorResponse(ctx, status, err.Error())
}
