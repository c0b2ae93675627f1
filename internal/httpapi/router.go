// Package httpapi serves grid data over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meowmeowcode/swiftgrid/internal/demo"
	"github.com/meowmeowcode/swiftgrid/internal/logger"
)

// Conf contains configuration of the HTTP API.
type Conf struct {
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter creates a router serving the people grid under /api.
func NewRouter(conf Conf, people *Grid[demo.Person]) *gin.Engine {
	log := conf.Logger
	if log == nil {
		log = logger.Discard()
	}

	r := gin.New()
	r.Use(RequestID(), Logger(log), gin.Recovery(), CORS(conf.CORSOrigins))
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to set trusted proxies", "error", err)
	}

	r.NoRoute(func(c *gin.Context) {
		RespondError(c, http.StatusNotFound, "route not found", nil)
	})

	api := r.Group("/api")
	{
		api.GET("/health", Health)
		api.GET("/grid", people.Definition)

		p := api.Group("/people")
		p.GET("", people.List)
		p.POST("/query", people.Query)
		p.POST("/edit", people.Edit)
	}
	return r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
