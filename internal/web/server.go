package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/EgorLis/lobbybot/internal/bot"
	"github.com/EgorLis/lobbybot/internal/config"
	"github.com/EgorLis/lobbybot/internal/schema"
	"github.com/EgorLis/lobbybot/internal/search"
)

// Backend — то, что дашборд берёт у бота. Реализуется *bot.LobbyBot.
type Backend interface {
	ConfigJSON() ([]byte, []string)
	ConfigOptions() map[string][]schema.Option
	CommandsJSON() ([]byte, []string)
	ReplaceConfig(data map[string]any) (*schema.Report, error)
	ReplaceCommands(data map[string]any) (*schema.Report, error)
	Reload(ctx context.Context) error
	Execute(ctx context.Context, account int, text string) ([]string, error)
	Searcher() *search.Searcher
	Locale() *config.Locale
}

type Server struct {
	backend  Backend
	cfg      config.WebConfig
	log      *log.Entry
	metrics  *Metrics
	hub      *Hub
	sessions *sessions
	router   *gin.Engine
}

// New собирает роутер. metrics == nil — свой набор счётчиков.
func New(b Backend, cfg config.WebConfig, metrics *Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	entry := logger.WithField("component", "web")
	s := &Server{
		backend:  b,
		cfg:      cfg,
		log:      entry,
		metrics:  metrics,
		hub:      NewHub(entry),
		sessions: newSessions(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.metrics.handler())
	if s.cfg.AccessLog {
		r.Use(accessLog(s.log))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", s.metrics.exposer())
	r.POST("/login", s.login)
	r.POST("/logout", s.logout)

	api := r.Group("/api", s.requireLogin())
	api.GET("/config", s.getDocument(s.backend.ConfigJSON))
	api.GET("/config/options", s.configOptions)
	api.POST("/config", s.putDocument("config", s.backend.ReplaceConfig))
	api.GET("/commands", s.getDocument(s.backend.CommandsJSON))
	api.POST("/commands", s.putDocument("commands", s.backend.ReplaceCommands))
	api.GET("/search/items", s.searchItems)
	api.GET("/search/playlists", s.searchPlaylists)
	api.POST("/command", s.command)
	api.GET("/events", func(c *gin.Context) { s.hub.Serve(c.Writer, c.Request) })
	return r
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) Hub() *Hub { return s.hub }

// Publish — обработчик bot.LobbyBot.OnEvent: метрики и рассылка в /api/events.
func (s *Server) Publish(e bot.Event) {
	s.metrics.Events.WithLabelValues(e.Type).Inc()
	if e.Type == "command" {
		if name, ok := e.Data["command"].(string); ok {
			s.metrics.Commands.WithLabelValues(name).Inc()
		}
	}
	s.hub.Broadcast(e)
}

func (s *Server) l(key string, args ...any) string {
	return s.backend.Locale().Section("web", key, args...)
}

// Run слушает cfg.Addr() до отмены ctx, потом гасит сервер за 10 секунд.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("web dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("web dashboard stopped")
	return nil
}
