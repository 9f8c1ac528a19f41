package main

import (
	"context"
	"flag"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	swimtrack "github.com/swimtrack/swimtrack"
	"github.com/swimtrack/swimtrack/internal/config"
	"github.com/swimtrack/swimtrack/internal/drafts"
	"github.com/swimtrack/swimtrack/internal/mcp"
	"github.com/swimtrack/swimtrack/internal/remote"
	"github.com/swimtrack/swimtrack/internal/server"
	"github.com/swimtrack/swimtrack/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "apply cache migrations and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(cfg.Log.Output(os.Stdout), &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("SwimTrack starting", "version", Version, "api", cfg.API.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the local cache
	var cache *storage.DB
	if cfg.Cache.Path != "" {
		cache, err = storage.Open(ctx, cfg.Cache.Path)
		if err != nil {
			log.Error("failed to open cache", "path", cfg.Cache.Path, "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		log.Info("cache ready", "path", cache.Path())

		if cfg.Cache.MaxAge > 0 {
			n, err := cache.PruneTrains(ctx, time.Now().Add(-cfg.Cache.MaxAge))
			if err != nil {
				log.Warn("pruning cache failed", "error", err)
			} else if n > 0 {
				log.Info("pruned stale trainings", "count", n)
			}
		}
	}
	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Drafts expire after the configured idle time
	reg := drafts.NewRegistry(cfg.Drafts.TTL, log)
	if cfg.Drafts.TTL > 0 {
		go reg.Run(ctx, cfg.Drafts.TTL/4)
	}

	srv := server.New(cfg.API.BaseURL, cfg.API.Timeout, reg, cache, log)

	// MCP over streamable HTTP, bound to the caller's session cookies
	var anon mcp.DataSource = remote.New(cfg.API.BaseURL, nil, cfg.API.Timeout)
	if cache != nil {
		anon = mcp.NewCachedSource(anon, cache, 0, log)
	}
	mcpSrv := mcp.New(anon, Version, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath("/mcp"),
		mcpserver.WithHTTPContextFunc(srv.MCPContext),
	))

	// Serve embedded frontend
	webDist, err := fs.Sub(swimtrack.WebFS, "web/dist")
	if err != nil {
		log.Error("failed to load embedded frontend", "error", err)
		os.Exit(1)
	}
	srv.SetFrontend(webDist)

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

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
		log.Info("server starting", "addr", addr, "mode", "plain http")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
