package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samdevvv/telofundi/internal/handler/response"
)

// Recovery turns a handler panic into a 500 envelope.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		log.Error("handler panic", "panic", fmt.Sprint(rec), "path", c.Request.URL.Path, RequestIDKey, c.GetString(RequestIDKey))
		response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	})
}
