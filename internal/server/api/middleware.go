package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/auth"
	"github.com/dmitrijs2005/bookkeeper/internal/server/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-Id or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Recovery turns a panic into a logged 500.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error(c.Request.Context(), "panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
			}
		}()
		c.Next()
	}
}

// RequestLogger logs every request except health and metrics endpoints.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			log.Error(ctx, "request completed", args...)
		case status >= 400:
			log.Warn(ctx, "request completed", args...)
		default:
			log.Info(ctx, "request completed", args...)
		}
	}
}

func isHealthPath(path string) bool {
	return path == "/health" || path == "/metrics"
}

// Instrument records request count and latency by matched route.
func Instrument(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Gate authenticates the request from its bearer token. On success the user
// id is placed on the request context; every failure gets the same 401 body.
func Gate(tokens *auth.TokenService, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if err == nil {
			var userID string
			userID, err = tokens.Verify(token)
			if err == nil {
				c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
				c.Next()
				return
			}
		}

		if m != nil {
			m.AuthFailed(failureReason(err))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthenticated})
	}
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrMissingToken
	}
	return token, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, common.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	default:
		return "invalid_token"
	}
}

// actorID returns the authenticated user set by Gate.
func actorID(c *gin.Context) string {
	id, _ := auth.UserIDFromContext(c.Request.Context())
	return id
}
