package mcp

import (
	"context"
	"fmt"
	"io"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/gene-validity-server/internal/config"
	"github.com/gene-validity-server/internal/service"
)

// Server exposes the scoring engine over the Model Context Protocol so
// that curation assistants can score evidence documents and classify
// totals without going through the HTTP API.
type Server struct {
	config    *config.LiteConfig
	mcpServer *mcp.Server
	scorer    *service.ScoringService
	logger    *logrus.Logger
}

// ServerOption configures the server during construction.
type ServerOption func(*Server)

// WithLogger sets a custom logger instance.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server from environment-driven configuration.
func NewServer(cfg *config.LiteConfig, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := logrus.New()
	// Stdout carries the MCP protocol stream, so logs must go to stderr
	// or be silenced entirely.
	if cfg.LogLevel == "silent" {
		logger.SetOutput(io.Discard)
	} else {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
	}
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	serverInfo := &mcp.Implementation{
		Name:    "gene-validity-mcp-server",
		Version: "v0.1.0",
	}

	server := &Server{
		config:    cfg,
		mcpServer: mcp.NewServer(serverInfo, nil),
		logger:    logger,
	}

	for _, opt := range opts {
		opt(server)
	}

	scorer, err := service.NewScoringService(server.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring service: %w", err)
	}
	server.scorer = scorer
	server.registerTools()

	return server, nil
}

func (s *Server) registerTools() {
	tools := []struct {
		tool    *mcp.Tool
		handler mcp.ToolHandler
	}{
		{
			tool: &mcp.Tool{
				Name:        "score_evidence",
				Description: "Score a gene-disease validity evidence document and return the genetic, experimental, and total points with the derived classification",
				InputSchema: &jsonschema.Schema{Type: "object"},
			},
			handler: s.handleScoreEvidence,
		},
		{
			tool: &mcp.Tool{
				Name:        "classify_totals",
				Description: "Derive a gene-disease validity classification from pre-computed genetic and experimental evidence totals",
				InputSchema: &jsonschema.Schema{Type: "object"},
			},
			handler: s.handleClassifyTotals,
		},
		{
			tool: &mcp.Tool{
				Name:        "evidence_caps",
				Description: "List the scoring caps and default points applied to each evidence category",
				InputSchema: &jsonschema.Schema{Type: "object"},
			},
			handler: s.handleEvidenceCaps,
		},
	}

	for _, t := range tools {
		s.mcpServer.AddTool(t.tool, t.handler)
		s.logger.WithField("tool", t.tool.Name).Debug("Registered MCP tool")
	}

	s.logger.WithField("count", len(tools)).Info("MCP tools registered")
}

// Run serves MCP requests over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"server":  "gene-validity-mcp-server",
		"version": "v0.1.0",
	}).Info("Starting MCP server on stdio")

	transport := &mcp.StdioTransport{}
	if err := s.mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
