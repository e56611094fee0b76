package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gameshow-quiz-service/internal/auth"
	"gameshow-quiz-service/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const callerKey = "callerId"

// Authenticate resolves the caller from a bearer token or a "token" query
// parameter (browsers cannot set headers on websocket upgrades). Requests
// without a token continue anonymously; invalid tokens are rejected.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.Next()
			return
		}
		userID, err := auth.ParseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Message: "invalid token"})
			return
		}
		c.Set(callerKey, userID)
		c.Next()
	}
}

// RequireCaller rejects anonymous requests.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Message: "authentication required"})
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated caller, or "" for anonymous requests.
func CallerID(c *gin.Context) string {
	return c.GetString(callerKey)
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("callerId", CallerID(c)),
		)
	}
}

func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RequestCounter.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
