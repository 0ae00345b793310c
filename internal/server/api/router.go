// Package api is the HTTP surface of the server, built on gin.
package api

import (
	"net/http"

	"github.com/dmitrijs2005/bookkeeper/internal/dbx"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/auth"
	"github.com/dmitrijs2005/bookkeeper/internal/server/observability"
	"github.com/dmitrijs2005/bookkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Users        *services.UserService
	Books        *services.BookService
	ProfileBooks *services.BookService
	Tokens       *auth.TokenService
	Metrics      *observability.Metrics
	Store        dbx.Pinger
	Log          logging.Logger
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log.With("module", "http")

	r := gin.New()
	r.Use(Recovery(log), RequestID(), RequestLogger(log), Instrument(d.Metrics))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	r.GET("/", root)
	r.GET("/health", health(d.Store, log))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	gate := Gate(d.Tokens, d.Metrics)

	ah := &authHandler{svc: d.Users, log: log}
	authGroup := r.Group("/auth")
	authGroup.POST("/register", ah.register)
	authGroup.POST("/login", ah.login)
	authGroup.GET("/me", gate, ah.me)

	bh := newBookHandler(d.Books, "Book", log)
	books := r.Group("/books", gate)
	books.POST("", bh.create)
	books.GET("", bh.listMine)
	books.GET("/:id", bh.getOne)
	books.PUT("/:id", bh.update)
	books.DELETE("/:id", bh.delete)
	books.POST("/:id/cover", bh.coverUpload)
	books.GET("/:id/cover", bh.coverDownload)

	ph := newBookHandler(d.ProfileBooks, "Profile Book", log)
	profile := r.Group("/profilebooks", gate)
	profile.POST("", ph.create)
	profile.GET("", ph.listAll)
	profile.GET("/mine", ph.listMine)
	profile.GET("/:id", ph.getOne)
	profile.PUT("/:id", ph.update)
	profile.DELETE("/:id", ph.delete)
	profile.POST("/:id/cover", ph.coverUpload)
	profile.GET("/:id/cover", ph.coverDownload)

	return r
}
