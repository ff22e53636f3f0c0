package server

import (
	"github.com/gin-gonic/gin"

	"github.com/ai4socialgood/orgnet/internal/metrics"
)

// Error code constants for JSON error responses.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeInternalError  = "internal_error"
	ErrCodeRateLimited    = "rate_limited"
)

// respondError writes a JSON error response and aborts the request. The
// request ID set by the requestID middleware is included when present.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()

	resp := map[string]string{
		"code":    code,
		"message": message,
	}
	if rid := c.GetString(RequestIDKey); rid != "" {
		resp["request_id"] = rid
	}

	c.AbortWithStatusJSON(status, resp)
}
