package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		attrs := []any{
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", ctx.ClientIP(),
		}
		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "errors", ctx.Errors.String())
		}
		switch {
		case status >= 500:
			slog.ErrorContext(ctx.Request.Context(), "request", attrs...)
		case status >= 400:
			slog.WarnContext(ctx.Request.Context(), "request", attrs...)
		default:
			slog.InfoContext(ctx.Request.Context(), "request", attrs...)
		}
	}
}
