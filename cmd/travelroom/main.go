// Package main is the travel planning chatroom's process entry point: a
// cobra root command with a default "serve" subcommand (runs the HTTP/SSE
// API) and a "migrate" subcommand (applies pending SQL migrations and
// exits).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/travelroom/pkg/api"
	"github.com/codeready-toolchain/travelroom/pkg/config"
	"github.com/codeready-toolchain/travelroom/pkg/database"
	"github.com/codeready-toolchain/travelroom/pkg/events"
	"github.com/codeready-toolchain/travelroom/pkg/llm"
	"github.com/codeready-toolchain/travelroom/pkg/orchestrator"
	"github.com/codeready-toolchain/travelroom/pkg/participants"
	"github.com/codeready-toolchain/travelroom/pkg/planstate"
	"github.com/codeready-toolchain/travelroom/pkg/prompt"
	"github.com/codeready-toolchain/travelroom/pkg/travel"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "travelroom",
		Short: "Multi-user AI-mediated travel planning chatroom",
	}

	serveCmd := newServeCmd()
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.RunE = serveCmd.RunE

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/SSE API server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := database.NewClient(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer db.Close()
			slog.Info("migrations applied", "database_url", cfg.DatabaseURL)
			return nil
		},
	}
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	configureLogging(cfg)

	db, err := database.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	var gateway llm.Gateway
	if cfg.HasLLM() {
		gateway = llm.NewOpenAIGateway(cfg.OpenAIAPIKey, 2)
		slog.Info("LLM gateway configured")
	} else {
		gateway = llm.UnconfiguredGateway{}
		slog.Warn("OPENAI_API_KEY not set — /chat and /events will serve error frames")
	}

	prompts := prompt.New()
	stages := travel.NewStages(gateway, prompts, cfg.PreviousPlanTextLimit)
	sessions := planstate.NewStore()
	parts := participants.NewRegistry()
	bus := events.NewBus(cfg.ReplaySize, cfg.CatchupSize)
	bus.OnMembershipChange(parts.MarkActive, parts.MarkInactive)

	executor := orchestrator.NewExecutor(stages, sessions, parts, bus, db, db, cfg.ChatroomSessionID)

	server := api.NewServer(cfg, db, executor, bus, parts)

	addr := ":" + cfg.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	serveErrCh := make(chan error, 1)
	go func() {
		slog.Info("serving", "addr", addr)
		serveErrCh <- server.StartWithListener(ln)
	}()

	select {
	case err := <-serveErrCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func configureLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
