package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/san-kum/partsim/internal/scene"
)

const version = "0.1.0"

type Server struct {
	hub     *Hub
	router  *gin.Engine
	origins []string
	started time.Time
}

// New serves hub. origins lists the browser origins allowed to call the API
// and open websockets; none allows any origin.
func New(hub *Hub, origins ...string) *Server {
	s := &Server{hub: hub, origins: origins, started: time.Now()}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.corsMiddleware())

	api := r.Group("/api/v1")
	{
		api.GET("/health", s.health)
		api.GET("/frame", s.frame)
		api.POST("/ball", s.ball)
		api.POST("/reset", s.reset)
		api.GET("/ws", s.websocketOriginCheck(), func(c *gin.Context) {
			serveWS(s.hub, c.Writer, c.Request)
		})
	}
	return r
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.origins
		log.Printf("[serve] allowed origins: %v", s.origins)
	}
	return cors.New(cfg)
}

// websocketOriginCheck rejects upgrades from origins outside the allowed
// list. Requests without an Origin header come from non-browser clients and
// pass.
func (s *Server) websocketOriginCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if len(s.origins) == 0 || origin == "" || slices.Contains(s.origins, origin) {
			c.Next()
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "websocket origin not allowed"})
		c.Abort()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "partsim",
		"version": version,
		"scene":   s.hub.SceneName(),
		"clients": s.hub.Clients(),
		"uptime":  time.Since(s.started).String(),
	})
}

func (s *Server) frame(c *gin.Context) {
	data := s.hub.Latest()
	if data == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame available"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

type ballRequest struct {
	X *float64 `json:"x" binding:"required"`
	Z *float64 `json:"z" binding:"required"`
}

func (s *Server) ball(c *gin.Context) {
	var req ballRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.hub.SetBall(c.Request.Context(), *req.X, *req.Z)
	switch {
	case errors.Is(err, scene.ErrNoLoad):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"x": *req.X, "z": *req.Z})
	}
}

func (s *Server) reset(c *gin.Context) {
	if err := s.hub.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// ListenAndServe runs the hub and the HTTP server until ctx is done, then
// shuts both down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errc := make(chan error, 1)
	go func() {
		log.Printf("[serve] listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Printf("[serve] shutting down")
	stopHub()
	return srv.Shutdown(shutdownCtx)
}
