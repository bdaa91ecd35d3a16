package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/pkg/presence"
)

// RequestLogger writes one line per request
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		if userID, ok := GetUserID(c); ok {
			event = event.Int64("userID", userID)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("Request")
	}
}

// TrackPresence records the authenticated caller as seen. It must run after JWTAuth.
// A tracker failure is logged and never fails the request.
func TrackPresence(tracker presence.Tracker, now func() time.Time, logger zerolog.Logger) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		if userID, ok := GetUserID(c); ok && tracker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
			if err := tracker.Touch(ctx, userID, now()); err != nil {
				logger.Warn().Err(err).Int64("userID", userID).Str("tracker", tracker.Name()).Msg("Failed to record presence")
			}
			cancel()
		}
		c.Next()
	}
}
