// Package respond defines the one JSON error shape used by every endpoint,
// so clients can branch on a machine-readable kind instead of parsing
// free-form messages.
package respond

import "github.com/gin-gonic/gin"

// Error kinds. Validation and business rejections are 4xx; kind store is the
// 5xx bucket with the underlying error surfaced (internal admin tool).
const (
	KindValidation   = "validation"
	KindNotFound     = "not_found"
	KindDuplicate    = "duplicate"
	KindUnauthorized = "unauthorized"
	KindDeviceToken  = "device_token"
	KindStore        = "store"
)

// APIError is the machine-readable half of a failure response.
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Fail writes the unified failure shape. The top-level message mirrors the
// error message for clients predating the error object.
func Fail(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   APIError{Kind: kind, Message: message},
	})
}
