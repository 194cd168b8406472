package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/calls"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/core"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/telephony"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

// Config holds HTTP listener settings.
type Config struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":8000"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"5s"`
}

// Options carries the voice route guards.
type Options struct {
	Environment core.Environment
	Renderer    *telephony.Renderer
	// Verifier is nil when webhook signatures are not checked.
	Verifier *telephony.SignatureVerifier
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler, opts Options) *gin.Engine {
	gin.SetMode(opts.Environment.GinMode())

	router := gin.New()
	router.Use(RequestIDMiddleware(), RequestLoggerMiddleware(), CORSMiddleware())

	api := router.Group("/", RecoveryMiddleware())
	{
		api.GET("/", h.Root)
		api.GET("/leads", h.ListLeads)
		api.GET("/leads/:id", h.GetLead)
		api.POST("/conversation/chat", h.Chat)
		api.GET("/conversation/history/:id", h.GetHistory)
		api.DELETE("/conversation/history/:id", h.ClearHistory)
		api.GET("/customer/phone/:id", h.CustomerPhone)
		api.POST("/voice/initiate-call/:id", h.InitiateCall)
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = telephony.NewRenderer(telephony.Config{})
	}
	voiceMiddleware := []gin.HandlerFunc{VoiceRecoveryMiddleware(renderer, calls.ApologyMessage)}
	if opts.Verifier != nil {
		voiceMiddleware = append(voiceMiddleware, TwilioSignatureMiddleware(opts.Verifier))
	}
	voice := router.Group("/voice", voiceMiddleware...)
	{
		voice.POST("/gather", h.Gather)
		voice.POST("/process-speech", h.ProcessSpeech)
	}

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", cfg.Addr).Msg("HTTP server listening")
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

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logx.Info().Dur("timeout", timeout).Msg("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
