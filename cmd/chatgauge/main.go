package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/halcyonworks/chatgauge/internal/api"
	"github.com/halcyonworks/chatgauge/internal/config"
	"github.com/halcyonworks/chatgauge/internal/conversation"
	"github.com/halcyonworks/chatgauge/internal/events"
	"github.com/halcyonworks/chatgauge/internal/export"
	"github.com/halcyonworks/chatgauge/internal/extract"
	"github.com/halcyonworks/chatgauge/internal/pipeline"
	"github.com/halcyonworks/chatgauge/internal/platform"
	"github.com/halcyonworks/chatgauge/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	dryRun := flag.Bool("dry-run", false, "run extraction without persisting or publishing")
	serve := flag.Bool("serve", false, "serve the results API after the run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	slog.Info("chatgauge starting",
		"platform", cfg.Platform.Type,
		"data_path", cfg.Platform.DataPath,
		"workers", cfg.Workers)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Database (optional; without it results only land in output files)
	var db *store.Store
	if cfg.Database.URL != "" && !*dryRun {
		db, err = store.New(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("database not configured — results will not be persisted")
	}

	// NATS (optional)
	var publisher pipeline.Publisher
	if cfg.NATS.URL != "" && !*dryRun {
		nc, err := events.NewClient(cfg.NATS.URL, cfg.NATS.Token, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		publisher = nc
		slog.Info("NATS connected", "url", cfg.NATS.URL)
	} else {
		slog.Warn("NATS not configured — running without run events")
	}

	raws, err := platform.LoadInbox(cfg.Platform.DataPath, slog.Default())
	if err != nil {
		slog.Error("loading export files", "error", err)
		os.Exit(1)
	}
	if len(raws) == 0 {
		slog.Error("no conversations found", "data_path", cfg.Platform.DataPath)
		os.Exit(1)
	}

	pipe, err := pipeline.New(pipeline.Options{
		Normalizer: conversation.NewNormalizer(cfg.Platform.AssistantName, slog.Default()),
		Rules: conversation.NewRoleRules(
			cfg.Processing.RoleTransfer.AssistantToUser,
			cfg.Processing.RoleTransfer.UserToAssistant,
			slog.Default()),
		Filter: &conversation.Filter{
			ExcludePhrases: cfg.Processing.FilterPhrases,
			MinLength:      cfg.Processing.MinLength,
			MaxLength:      cfg.Processing.MaxLength,
			Dedup: conversation.DedupPolicy{
				Scope:     cfg.Processing.Dedup.Scope,
				Normalize: cfg.Processing.Dedup.Normalize,
			},
		},
		Registry: extract.Builtin(extract.Config{
			NResponses:  cfg.Features.NResponses,
			MinReplyLen: cfg.Features.MinReplyLen,
		}),
		EnabledFeatures: cfg.Features.Enabled,
		EnabledTargets:  cfg.Targets.Enabled,
		Workers:         cfg.Workers,
		Publisher:       publisher,
		Logger:          slog.Default(),
	})
	if err != nil {
		slog.Error("building pipeline", "error", err)
		os.Exit(1)
	}

	batch, err := pipe.Run(ctx, raws)
	if err != nil {
		slog.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	if db != nil {
		persisted := 0
		for _, res := range batch.Results {
			if ctx.Err() != nil {
				break
			}
			if err := db.WriteConversation(ctx, res.Conversation); err != nil {
				slog.Error("persisting conversation", "conversation_id", res.ConversationID, "error", err)
				continue
			}
			if _, err := db.WriteResult(ctx, batch.RunID, res); err != nil {
				slog.Error("persisting result", "conversation_id", res.ConversationID, "error", err)
				continue
			}
			persisted++
		}
		slog.Info("results persisted", "count", persisted)
	}

	if !*dryRun {
		if err := export.WriteFiles(cfg.Output.Dir, batch.Results); err != nil {
			slog.Error("writing output files", "error", err)
			os.Exit(1)
		}
		slog.Info("output written", "dir", cfg.Output.Dir)
	}

	fmt.Printf("run %s: %d conversations extracted, %d skipped\n",
		batch.RunID, len(batch.Results), len(batch.Skips))
	for _, skip := range batch.Skips {
		fmt.Printf("  skipped %s: %s\n", skip.ConversationID, skip.Reason)
	}

	if *serve {
		if db == nil {
			slog.Error("cannot serve API without a database")
			os.Exit(1)
		}
		srv := api.NewServer(cfg.API.Port, db)
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("HTTP server error", "error", err)
			}
		}()
		slog.Info("chatgauge ready", "port", cfg.API.Port)
		<-ctx.Done()
		slog.Info("shutting down")
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
