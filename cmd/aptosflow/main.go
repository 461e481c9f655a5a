package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aptosflow/engine/internal/chainpoll"
	"github.com/aptosflow/engine/internal/config"
	"github.com/aptosflow/engine/internal/execution"
	"github.com/aptosflow/engine/internal/handlers/cli"
	"github.com/aptosflow/engine/internal/handlers/webhook"
	aptosinfra "github.com/aptosflow/engine/internal/infra/blockchain/aptos"
	redisinfra "github.com/aptosflow/engine/internal/infra/storage/redis"
	"github.com/aptosflow/engine/internal/pkg/logger"
	"github.com/aptosflow/engine/internal/pkg/resilience/retry"
	"github.com/aptosflow/engine/internal/pkg/telemetry"
	transporthttp "github.com/aptosflow/engine/internal/pkg/transport/http"
	"github.com/aptosflow/engine/internal/trigproc"
	"github.com/aptosflow/engine/internal/txtrigger"
	"github.com/aptosflow/engine/internal/workflow"
)

const serviceName = "aptosflow-engine"

// transferFunctions are the native entry points a trigger transfer can
// arrive through.
var transferFunctions = []string{
	"0x1::aptos_account::transfer",
	"0x1::aptos_account::transfer_coins",
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			log.Fatalf("telemetry init failed: %v", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	chainClient, err := aptosinfra.NewClient(cfg.NodeURL, cfg.PrivateKey, cfg.ModuleAddress)
	if err != nil {
		logger.Fatal(ctx, "chain client init failed", "error", err)
	}

	// Both detection paths share one ledger so a trigger observed by the
	// poller and the webhook intake executes at most once.
	var ledger txtrigger.Ledger = txtrigger.NewMemoryLedger()
	if cfg.RedisAddr != "" {
		redisClient, err := redisinfra.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal(ctx, "redis init failed", "error", err)
		}
		defer func() { _ = redisClient.Close() }()

		ledger = redisClient.NewLedger(cfg.LedgerTTL)
	}

	rule := txtrigger.Rule{
		Functions:      transferFunctions,
		MatchAmount:    cfg.MagicTriggerAmount,
		ResponseAmount: cfg.ResponseAmount,
	}

	var (
		dispatcher = execution.New(chainClient)
		pipeline   = txtrigger.New(rule, dispatcher, txtrigger.WithLedger(ledger))
	)

	poller := chainpoll.New(chainClient, pipeline, cfg.MonitoredAddresses,
		chainpoll.WithPollInterval(cfg.PollInterval),
		chainpoll.WithWindowSize(cfg.WindowSize),
		chainpoll.WithRetry(retry.New()),
	)

	webhookServer := webhook.New(
		cfg.ListenAddr,
		chainClient.ExecutorAddress(),
		workflow.CreateEventType(cfg.ModuleAddress),
		ledger,
		dispatcher,
	)

	engine := trigproc.New(poller, webhookServer, chainClient,
		trigproc.WithLowBalanceThreshold(cfg.LowBalanceThreshold),
	)

	var promptParser workflow.PromptParser
	if cfg.PromptParserURL != "" {
		promptParser = workflow.NewPromptParser(transporthttp.NewClient(), cfg.PromptParserURL)
	}

	if err := cli.Run(ctx, engine, chainClient, promptParser); err != nil {
		logger.Fatal(ctx, "engine terminated with error", "error", err)
	}
}
