package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader carries the correlation id in both directions.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the echo context key holding the id for this request.
	RequestIDKey = "request_id"

	// maxRequestIDLength bounds ids accepted from callers. Longer values end
	// up in every log line for the request, so they are replaced.
	maxRequestIDLength = 128
)

// RequestID tags every request with a correlation id.
//
// An id supplied by the caller in X-Request-ID is kept when it is printable
// ASCII of at most 128 bytes. Anything else is replaced by a fresh UUID.
// The id is stored under RequestIDKey for EnhanceContext and the error
// handler, and written back on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Prefer the caller's id so traces line up across services.
			requestID := c.Request().Header.Get(RequestIDHeader)
			if !validRequestID(requestID) {
				requestID = uuid.New().String()
			}

			// Handlers and the request logger read it from here.
			c.Set(RequestIDKey, requestID)

			// Set before next runs so error responses carry it too.
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// GetRequestID returns the id set by RequestID, or "" outside that middleware.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
