package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/telephony"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware reuses an inbound X-Request-ID or mints one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLoggerMiddleware logs one line per request.
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logx.Info()
		if status >= http.StatusInternalServerError {
			ev = logx.Error()
		} else if status >= http.StatusBadRequest {
			ev = logx.Warn()
		}
		ev.Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RecoveryMiddleware answers JSON routes with a 500 body after a panic.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logx.Error().Str("request_id", c.GetString(requestIDKey)).Str("panic", fmt.Sprint(recovered)).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: errx.SystemErrorMessage})
	})
}

// VoiceRecoveryMiddleware keeps the call alive with an apology document after a panic.
func VoiceRecoveryMiddleware(renderer *telephony.Renderer, apology string) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logx.Error().Str("request_id", c.GetString(requestIDKey)).Str("panic", fmt.Sprint(recovered)).Msg("panic recovered on voice route")
		c.Data(http.StatusOK, twimlContentType, []byte(renderer.RenderFinal(apology)))
		c.Abort()
	})
}

// TwilioSignatureMiddleware rejects webhooks that were not signed by the account.
func TwilioSignatureMiddleware(verifier *telephony.SignatureVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Detail: errx.InvalidInputMessage})
			return
		}
		if err := verifier.Verify(c.Request); err != nil {
			logx.Warn().Err(err).Str("request_id", c.GetString(requestIDKey)).Str("path", c.Request.URL.Path).Msg("rejected webhook")
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Detail: err.Error()})
			return
		}
		c.Next()
	}
}
