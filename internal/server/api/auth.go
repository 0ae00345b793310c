package api

import (
	"net/http"

	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type authHandler struct {
	svc *services.UserService
	log logging.Logger
}

func (h *authHandler) fail(c *gin.Context, err error) {
	respondError(c, h.log, defaultMessages, err)
}

func (h *authHandler) bind(c *gin.Context) (services.Credentials, bool) {
	var in services.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Send username and password"})
		return in, false
	}
	return in, true
}

func (h *authHandler) register(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	token, user, err := h.svc.Register(c.Request.Context(), in.UserName, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{Token: token, User: user.Public()})
}

func (h *authHandler) login(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), in.UserName, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: token, User: user.Public()})
}

func (h *authHandler) me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), actorID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newMeResponse(user))
}
