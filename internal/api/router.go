package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skillsenselab/meetstream/internal/config"
	"github.com/skillsenselab/meetstream/internal/logger"
)

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(log *logger.Logger, meetings *MeetingHandler, health *HealthHandler) *gin.Engine {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(RequestID(), Recovery(log), RequestLogger(log))

	// Bare path for load balancer probes.
	engine.GET("/health", health.Health)

	api := engine.Group("/api")
	{
		api.GET("/health", health.Health)

		meeting := api.Group("/meeting")
		{
			meeting.POST("", meetings.Create)
			meeting.POST("/upload", meetings.Upload)
			meeting.GET("/:id", meetings.Get)
			meeting.GET("/:id/stream", meetings.Stream)
			meeting.GET("/:id/pipeline", meetings.Pipeline)
		}
	}

	return engine
}

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates the HTTP server over the given engine. WriteTimeout is
// left unset here; the SSE writer disables the write deadline per connection
// anyway, and short non-stream responses are covered by ReadTimeout.
func NewServer(cfg config.Server, engine *gin.Engine, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.Addr(),
			Handler:     engine,
			ReadTimeout: cfg.ReadTimeout,
		},
		log: log.WithComponent("server"),
	}
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.log.Info("server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}
