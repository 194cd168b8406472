package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/catalog"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/directory"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/graph/conversations"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/repo"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/calls"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/config"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/server"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/telephony"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, loaded, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}
	logx.Init(cfg.Log)
	if !loaded {
		logx.Warn().Msg("no .env file found, using process environment")
	}

	var store model.DialogueStore
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to initialise Redis client")
		}
		defer rdb.Close()
		store = repo.NewRedisConversationRepository(rdb, cfg.Conversation.TTL)
		logx.Info().Msg("conversation history stored in Redis")
	} else {
		store = repo.NewMemoryConversationRepository()
		logx.Info().Msg("conversation history kept in memory")
	}

	runner, err := graph.BuildResponseChain(ctx, graph.Config{
		ResponseModel: cfg.Response,
		Keys:          cfg.Keys,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build response chain")
	}
	if cfg.Keys.APIKeyFor(cfg.Response.Provider) == "" {
		logx.Warn().Str("provider", cfg.Response.Provider).Msg("no API key configured, chat turns will fail")
	}

	leads := directory.Default()
	composer := conversations.NewMessagesManager(leads, store, catalog.Default().Text(), cfg.Prompt, cfg.Conversation)
	svc := agent.NewService(composer, runner, store)

	if err := cfg.Telephony.Validate(); err != nil {
		logx.Fatal().Err(err).Msg("invalid telephony config")
	}
	renderer := telephony.NewRenderer(cfg.Telephony)
	if !cfg.Telephony.HasCredentials() {
		logx.Warn().Msg("Twilio credentials missing, outbound calls are disabled")
	}
	controller := calls.NewController(leads, svc, renderer, telephony.NewTwilioDialerFromConfig(cfg.Telephony), cfg.Telephony, cfg.Calls)

	opts := server.Options{Environment: cfg.Log.Environment, Renderer: renderer}
	if cfg.Telephony.ValidateSignature {
		opts.Verifier = telephony.NewSignatureVerifier(cfg.Telephony.AuthToken, cfg.Telephony.WebhookBaseURL)
	}
	router := server.NewRouter(server.NewHandler(leads, svc, controller), opts)

	if err := server.Run(ctx, cfg.Server, router); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
	logx.Info().Msg("server exited")
}
