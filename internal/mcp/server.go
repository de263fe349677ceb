// Package mcp provides an MCP (Model Context Protocol) server for schelling.
package mcp

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/schelling/internal/logging"
	"github.com/nvandessel/schelling/internal/ratelimit"
	"github.com/nvandessel/schelling/internal/simulation"
	"github.com/nvandessel/schelling/internal/store"
)

// Server wraps the MCP SDK server and exposes the simulation as tools.
type Server struct {
	server    *sdk.Server
	store     store.RunStore
	retention store.RetentionPolicy
	defaults  simulation.Params
	logger    *slog.Logger
	rounds    *logging.RoundLogger
	limits    ratelimit.Limits
	exportDir string
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "schelling")
	Version string // Server version

	// Defaults fill in any parameter a tool call leaves unset.
	Defaults simulation.Params

	// Store backs the history tools and run recording. Optional.
	Store store.RunStore

	// Retention prunes Store after each recorded run. Optional.
	Retention store.RetentionPolicy

	// ExportDir is where schelling_export may write. Empty disables the tool.
	ExportDir string

	// Limits throttles tool calls. Nil uses ratelimit.DefaultLimits.
	Limits ratelimit.Limits

	Logger *slog.Logger
	Rounds *logging.RoundLogger
}

// NewServer creates a new MCP server with schelling tools.
func NewServer(cfg *Config) (*Server, error) {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:    mcpServer,
		store:     cfg.Store,
		retention: cfg.Retention,
		defaults:  cfg.Defaults,
		logger:    cfg.Logger,
		rounds:    cfg.Rounds,
		limits:    cfg.Limits,
		exportDir: cfg.ExportDir,
	}
	if s.limits == nil {
		s.limits = ratelimit.DefaultLimits()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	s.logger.Info("mcp server listening on stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// Close releases the history store, if any.
func (s *Server) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
