package middleware

import (
	"net/http"
	"time"

	"bookpos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logger writes one structured line per request.
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		requestID, _ := c.Get(RequestIDKey)
		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		} else if c.Writer.Status() >= 400 {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Interface("request_id", requestID).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery converts panics into a 500 envelope instead of killing the process.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Get(RequestIDKey)
				log.Error().
					Interface("panic", r).
					Interface("request_id", requestID).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Response{
					Error: string(apierror.KindFailed), Message: "internal error",
				})
			}
		}()
		c.Next()
	}
}

// ErrorHandler turns errors attached via c.Error into the standard envelope.
// Handlers that respond directly never reach this.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if apierror.KindOf(err) == apierror.KindFailed {
			requestID, _ := c.Get(RequestIDKey)
			log.Error().Err(err).Interface("request_id", requestID).Msg("unhandled error")
		}
		status, payload := apierror.Payload(err)
		c.JSON(status, payload)
	}
}
