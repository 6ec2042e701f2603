package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reel/internal/app"
	"reel/internal/logging"
	"reel/internal/server"
	"reel/internal/uiloop"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive loop and HTTP control API in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(cmdCtx context.Context, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	loop := uiloop.New(0, logger)
	controller, collector, err := app.Open(signalCtx, cfg, app.Options{Logger: logger, Dispatcher: loop})
	if err != nil {
		return err
	}
	defer controller.Close()

	for _, result := range controller.Preflight(signalCtx) {
		if !result.Passed {
			logger.Warn("preflight check failed; jobs will be refused",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
			)
		}
	}

	var metricsHandler http.Handler
	if collector != nil {
		metricsHandler = collector.Handler()
	}
	srv, err := server.New(cfg, controller, loop, metricsHandler, logger)
	if err != nil {
		return err
	}
	return srv.Run(signalCtx)
}
