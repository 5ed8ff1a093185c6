// Package server exposes the study data over a small REST API so that
// other clients can save sessions, ask for recommendations and generate
// practice questions against the same store.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/analytics"
	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/practice"
	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/store"
)

// DefaultAddr is the listen address used by `studydesk serve`.
const DefaultAddr = "127.0.0.1:8787"

// Config wires the server to its collaborators. Generator may be nil when
// no LLM provider is configured; question generation then answers 503.
type Config struct {
	Sessions     store.SessionRepo
	Recommender  recommend.Recommender
	Materials    *materials.Service
	Generator    practice.Generator
	Achievements *achievements.Service
	Analytics    *analytics.Service

	// AllowOrigins lists CORS origins. Empty allows any origin.
	AllowOrigins []string
}

// Server is the REST backend.
type Server struct {
	cfg    Config
	sink   *persist.StoreSink
	engine *gin.Engine
}

// New builds the gin engine and registers all routes.
func New(cfg Config) *Server {
	if cfg.Recommender == nil {
		cfg.Recommender = recommend.Algorithm{}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Content-Length", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	r.Use(cors.New(corsCfg))

	s := &Server{cfg: cfg, sink: persist.NewStoreSink(cfg.Sessions), engine: r}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/sessions", s.createSession)
		api.GET("/sessions", s.listSessions)
		api.POST("/recommendation", s.recommendation)
		api.GET("/users/:userId/files", s.listFiles)
		api.GET("/users/:userId/folders", s.listFolders)
		api.POST("/questions", s.generateQuestions)
		api.GET("/achievements", s.listAchievements)
		api.GET("/stats", s.stats)
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
