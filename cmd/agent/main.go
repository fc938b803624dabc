package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-agent-go/internal/config"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/api"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/notify"
	leaveService "github.com/cmlabs-hris/hris-agent-go/internal/service/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/service/session"
	"github.com/cmlabs-hris/hris-agent-go/internal/service/timesheet"
	"github.com/cmlabs-hris/hris-agent-go/internal/store"
	"github.com/cmlabs-hris/hris-agent-go/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.App.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logFile, err := os.OpenFile("hris-agent.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	})).With(
		slog.String("app", "hris-agent"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	keymap, err := config.LoadKeymap(cfg.App.KeymapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading keymap:", err)
		os.Exit(1)
	}

	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating API client:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	currentUser, err := client.Login(ctx, cfg.Auth.Email, cfg.Auth.Password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Login failed:", err)
		os.Exit(1)
	}

	appStore := store.New()
	appStore.SetUser(currentUser)

	notices := notify.NewChan(16)
	notifier := notify.Multi{notify.NewLogger(logger), notices}

	timer := session.NewTimer(client, appStore, notifier, clock.System(), logger,
		session.WithTickInterval(cfg.App.TickInterval))
	defer timer.Stop()

	if err := timer.Initialize(ctx, currentUser.ID); err != nil {
		// Already notified; the UI starts idle and the user can retry.
		logger.Warn("session reconciliation failed on startup", "error", err)
	}

	leaves := leaveService.NewService(client, client, appStore, notifier, logger)
	timesheets := timesheet.NewService(client)

	if err := tui.Run(timer, leaves, timesheets, appStore, notices, keymap, currentUser.ID); err != nil {
		fmt.Fprintln(os.Stderr, "Error running UI:", err)
		os.Exit(1)
	}

	if err := client.Logout(ctx); err != nil {
		logger.Warn("logout failed", "error", err)
	}
	appStore.Reset()
}
