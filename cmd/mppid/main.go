package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aosmw/navigation2/internal/canbus"
	"github.com/aosmw/navigation2/internal/mppid"
	"github.com/aosmw/navigation2/internal/optimizer"
	"github.com/aosmw/navigation2/internal/viz"
	"github.com/aosmw/navigation2/pkg/config"
	"github.com/aosmw/navigation2/pkg/logger"
)

func main() {
	var configPath string
	var httpAddr string
	var logLevel string

	flag.StringVar(&configPath, "config", "", "path to YAML config (optional, defaults apply)")
	flag.StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			logger.SetDefault(logger.NewText("info", os.Stdout))
			logger.Error("failed to load config", "path", configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stdout))
	for _, w := range cfg.HandoffWarnings() {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	ctrl, err := optimizer.New(cfg, logger.Default)
	if err != nil {
		logger.Error("failed to build controller", "error", err)
		stop()
		os.Exit(1)
	}
	defer ctrl.Shutdown()

	server := mppid.NewHTTPServer(ctrl, logger.Default)

	if cfg.Viz != nil && cfg.Viz.Enabled {
		dumper, err := viz.NewDumper(cfg.Viz.OutputDir)
		if err != nil {
			logger.Error("failed to create viz dumper", "dir", cfg.Viz.OutputDir, "error", err)
			stop()
			os.Exit(1)
		}
		server.WithViz(dumper)
		logger.Info("per-cycle trajectory plots enabled", "dir", cfg.Viz.OutputDir)
	}

	if cfg.CAN != nil && cfg.CAN.Enabled {
		sink, err := canbus.NewSink(ctx, cfg.CAN.Interface, cfg.CAN.FrameID)
		if err != nil {
			logger.Error("failed to open CAN sink", "interface", cfg.CAN.Interface, "error", err)
			stop()
			os.Exit(1)
		}
		defer sink.Close()
		server.WithCANSink(sink)
		logger.Info("CAN command sink enabled", "interface", cfg.CAN.Interface, "frame_id", cfg.CAN.FrameID)
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr,
			"motion_model", cfg.Optimizer.MotionModel,
			"batch_size", cfg.Optimizer.BatchSize,
			"time_steps", cfg.Optimizer.TimeSteps)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
}
