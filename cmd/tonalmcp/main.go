package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/tonalmcp/internal/config"
	"github.com/claude/tonalmcp/internal/mcp"
	"github.com/claude/tonalmcp/internal/server"
	"github.com/claude/tonalmcp/internal/storage"
	"github.com/claude/tonalmcp/internal/tonal"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	transport := flag.String("transport", "", "override server.transport (stdio or http)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("tonalmcp", Version)
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *transport != "" {
		cfg.Server.Transport = *transport
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -transport: %v\n", err)
			os.Exit(1)
		}
	}

	// stdout carries the MCP stream in stdio mode, so logs always go to stderr.
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})
	log := slog.New(logHandler)
	log.Info("tonalmcp starting", "version", Version, "transport", cfg.Server.Transport)

	ctx := context.Background()

	// Revision history
	revs, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open revision store", "error", err)
		os.Exit(1)
	}
	if revs != nil {
		defer revs.Close()
	}

	client := tonal.New(cfg.Tonal, log)
	if cfg.Tonal.Username == "" || cfg.Tonal.Password == "" {
		log.Warn("TONAL_USERNAME / TONAL_PASSWORD not set; platform tools will fail until they are")
	}

	mcpSrv := mcp.New(client, revs, Version, log)

	if cfg.Server.Transport == config.TransportStdio {
		errLog := slog.NewLogLogger(logHandler, slog.LevelError)
		if err := mcpserver.ServeStdio(mcpSrv, mcpserver.WithErrorLogger(errLog)); err != nil {
			log.Error("stdio server error", "error", err)
			os.Exit(1)
		}
		log.Info("stdio server stopped")
		return
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithEndpointPath("/mcp"))
	srv := server.New(streamable, cfg.Auth.APIKey, Version, log)

	// Listen on the tailnet or on plain TCP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
			Logf: func(format string, args ...any) {
				log.Debug(fmt.Sprintf(format, args...), "component", "tsnet")
			},
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := cfg.Server.Addr()
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mcp", "http://"+addr+"/mcp")
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := streamable.Shutdown(shutdownCtx); err != nil {
		log.Error("mcp shutdown error", "error", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
