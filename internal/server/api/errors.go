package api

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	msgUnauthenticated = "unauthenticated"
	msgInternal        = "Something went wrong!"
)

// messages overrides the default response texts for a route group.
type messages struct {
	notFound   string
	validation string
}

var defaultMessages = messages{
	notFound:   "Not found",
	validation: "Invalid input",
}

// respondError maps err to a status code and a JSON body. Unknown errors are
// logged and rendered as a generic 500.
func respondError(c *gin.Context, log logging.Logger, msgs messages, err error) {
	var verr *common.ValidationError

	switch {
	case common.IsAuthentication(err):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthenticated})
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgs.validation, "fields": verr.Fields})
	case errors.Is(err, common.ErrorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": msgs.notFound})
	case errors.Is(err, common.ErrNotAuthorized):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
	case errors.Is(err, common.ErrDuplicateUsername):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Username already taken"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
	case errors.Is(err, services.ErrCoversDisabled):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Cover storage is not configured"})
	default:
		log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey), "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	}
	_ = c.Error(err)
}
