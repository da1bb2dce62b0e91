package http

import (
	"context"
	"errors"
	"guestroom/config"
	notificationService "guestroom/internal/domains/notification/service"
	"guestroom/shared/constant"
	"guestroom/transport/http/response"
	"guestroom/transport/http/router"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const readHeaderTimeout = 10 * time.Second

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

// HTTP serves the API. On SIGTERM it first reports unhealthy for the grace period so load
// balancers stop routing to it, then drains in-flight requests and notification emails for
// the cleanup period.
type HTTP struct {
	Config   *config.Config
	Router   router.Router
	Notifier notificationService.Notifier

	state  atomic.Int32
	mux    *chi.Mux
	server *http.Server
	once   sync.Once
}

func New(cfg *config.Config, r router.Router, notifier notificationService.Notifier) *HTTP {
	return &HTTP{
		Config:   cfg,
		Router:   r,
		Notifier: notifier,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) setState(state ServerState) {
	h.state.Store(int32(state))
}

func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go h.shutdownOnSignal()

	log.Info().Str("addr", h.server.Addr).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// ServeHTTP lets the server run behind another http.Server or a serverless entrypoint.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()
	h.mux.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.mux = chi.NewRouter()

		h.mux.Use(chiMiddleware.RequestID)
		h.mux.Use(chiMiddleware.RealIP)
		h.mux.Use(chiMiddleware.Recoverer)

		// chi rejects middleware added after a route, so the router goes first.
		h.Router.SetupRoutes(h.mux)
		h.mux.Get("/health", h.health)

		h.setState(ServerStateReady)
	})
}

// health reports 503 once shutdown has started so load balancers drain the instance.
func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(w, http.StatusOK, "OK")
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) shutdownOnSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	sig := <-signals

	defer os.Exit(0)

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Str("signal", sig.String()).Msg("Shutting down now.")

		return
	}

	periods := h.Config.Server.Shutdown
	grace := time.Duration(periods.GracePeriodSeconds) * time.Second
	cleanup := time.Duration(periods.CleanupPeriodSeconds) * time.Second

	log.Info().Str("signal", sig.String()).Dur("grace", grace).Msg("Entering grace period.")
	h.setState(ServerStateInGracePeriod)
	time.Sleep(grace)

	log.Info().Dur("cleanup", cleanup).Msg("Entering cleanup period.")
	h.setState(ServerStateInCleanupPeriod)

	ctx, cancel := context.WithTimeout(context.Background(), cleanup)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain in-flight requests")
	}

	// requests are done, so no new notification can start
	if err := h.drainNotifications(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain pending notifications")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

// drainNotifications waits for notification emails still being sent, giving up when ctx ends.
func (h *HTTP) drainNotifications(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		h.Notifier.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
