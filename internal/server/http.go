package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumora-app/lumora/internal/app"
	"github.com/lumora-app/lumora/internal/handler"
)

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(appCtx *app.AppContext) *gin.Engine {
	if appCtx.Cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), RequestTimeout(appCtx.Cfg.HTTP.RequestTimeout))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	discoveryHandler := handler.NewDiscoveryHandler(appCtx)
	engagementHandler := handler.NewEngagementHandler(appCtx)

	v1 := r.Group("/v1", handler.RequireUser())
	v1.GET("/feed", discoveryHandler.Feed)
	v1.POST("/likes", engagementHandler.Like)
	v1.POST("/passes", engagementHandler.Pass)

	return r
}

// StartHTTPServer boots the HTTP server and blocks until it exits.
func StartHTTPServer(appCtx *app.AppContext, engine *gin.Engine) error {
	addr := fmt.Sprintf("%s:%s", appCtx.Cfg.HTTP.Host, appCtx.Cfg.HTTP.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	return srv.ListenAndServe()
}
