package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yigit/acroconnect/internal/bootstrap"
	"github.com/yigit/acroconnect/internal/config"
	"github.com/yigit/acroconnect/internal/middleware"
	"github.com/yigit/acroconnect/internal/pkg/helpers"
	"github.com/yigit/acroconnect/internal/pkg/logger"
	"github.com/yigit/acroconnect/internal/pkg/tracing"
)

const sessionPurgeInterval = 15 * time.Minute

// Server runs the dashboard frontend.
type Server struct {
	config          *config.Config
	router          *gin.Engine
	sessions        *SessionStore
	logger          zerolog.Logger
	http            *http.Server
	stopBackground  context.CancelFunc
	shutdownTracing tracing.ShutdownFunc
}

// NewServer loads configuration and wires the session store, API client and routes.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}
	lgr = lgr.With().Str("component", "dashboard").Logger()

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "acroconnect-dashboard",
		Environment: cfg.Server.Mode,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup tracing: %w", err)
	}

	ttl := helpers.ParseDuration("dashboard.session_ttl", cfg.Dashboard.SessionTTL, 12*time.Hour)
	sessions, err := OpenSessionStore(cfg.Dashboard.SessionDBPath, ttl)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	lgr.Info().Str("path", cfg.Dashboard.SessionDBPath).Dur("ttl", ttl).Msg("Session store ready")

	// roadmap generation may walk every candidate model before answering
	apiTimeout := helpers.ParseDuration("server.write_timeout", cfg.Server.WriteTimeout, 5*time.Minute)
	client := NewClient(cfg.Dashboard.APIBaseURL, apiTimeout)

	handler, err := NewHandler(client, sessions, Options{
		CookieSecure:  cfg.Dashboard.CookieSecure,
		SessionMaxAge: int(ttl / time.Second),
	}, lgr)
	if err != nil {
		sessions.Close()
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter(handler, lgr)

	bgCtx, stop := context.WithCancel(context.Background())
	startSessionPurge(bgCtx, sessions, lgr)

	return &Server{
		config:          cfg,
		router:          router,
		sessions:        sessions,
		logger:          lgr,
		stopBackground:  stop,
		shutdownTracing: shutdownTracing,
	}, nil
}

// NewRouter builds the gin engine serving h
func NewRouter(h *Handler, lgr zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware("acroconnect-dashboard"),
		middleware.RequestID(),
		middleware.RequestLogger(lgr),
	)
	h.Routes(router)
	return router
}

// Run starts the HTTP server and blocks until a signal or a listener error.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Dashboard.Port,
		Handler:      s.router,
		ReadTimeout:  helpers.ParseDuration("server.read_timeout", s.config.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: helpers.ParseDuration("server.write_timeout", s.config.Server.WriteTimeout, 5*time.Minute) + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Str("api", s.config.Dashboard.APIBaseURL).Msg("Dashboard listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("error starting dashboard: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown stops the listener, background purge and session store
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Dashboard shutdown error")
			errs = errors.Join(errs, err)
		}
	}
	if s.stopBackground != nil {
		s.stopBackground()
	}
	if s.sessions != nil {
		if err := s.sessions.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if s.shutdownTracing != nil {
		if err := s.shutdownTracing(ctx); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	logger.Info().Msg("Dashboard shutdown complete.")
	return errs
}

func startSessionPurge(ctx context.Context, sessions *SessionStore, lgr zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := sessions.PurgeExpired(ctx)
				if err != nil {
					lgr.Error().Err(err).Msg("Session purge failed")
					continue
				}
				if removed > 0 {
					lgr.Debug().Int64("removed", removed).Msg("Expired sessions removed")
				}
			}
		}
	}()
}
