// Package response writes the JSON envelope shared by every HTTP endpoint:
//
//	{"success": true, "data": ..., "timestamp": "2026-05-01T12:00:00.000Z"}
//	{"success": false, "error": {"code": ..., "message": ...}, "timestamp": ...}
package response

import (
	"time"

	"github.com/gin-gonic/gin"

	svcErr "github.com/samdevvv/telofundi/internal/errors"
)

// TimestampFormat is ISO-8601 with millisecond precision, always UTC.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Now is the envelope clock. Tests may replace it.
var Now = func() time.Time { return time.Now() }

func timestamp() string {
	return Now().UTC().Format(TimestampFormat)
}

// OK writes a success envelope with data.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data, Timestamp: timestamp()})
}

// Fail aborts the request with an error envelope.
func Fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Error:     &Error{Code: code, Message: message},
		Timestamp: timestamp(),
	})
}

// FailWithData aborts with an error envelope that also carries data.
func FailWithData(c *gin.Context, status int, code, message string, data any) {
	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Data:      data,
		Error:     &Error{Code: code, Message: message},
		Timestamp: timestamp(),
	})
}

// Err maps err to a status and code and aborts with an error envelope.
// Validation and not-found messages reach the client; anything else is
// reported generically and attached to the gin context for logging.
func Err(c *gin.Context, err error) {
	status, code := svcErr.HTTPStatus(err)
	msg := err.Error()
	switch code {
	case "VALIDATION_ERROR", "NOT_FOUND", "JOB_IN_PROGRESS":
	default:
		_ = c.Error(err)
		msg = genericMessages[code]
	}
	Fail(c, status, code, msg)
}

var genericMessages = map[string]string{
	"CONFLICT":       "conflicting record",
	"TIMEOUT":        "request timed out",
	"UNAVAILABLE":    "service temporarily unavailable",
	"INTERNAL_ERROR": "internal error",
}
