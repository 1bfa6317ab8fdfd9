// Package mcp exposes the sys query operations as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/sysmod"
)

// ServerName is the MCP server name
const ServerName = "sysmod"

// Server wraps the MCP server with the query engine
type Server struct {
	mcp    *server.MCPServer
	engine *sysmod.Engine
	logger *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(engine *sysmod.Engine, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp:    server.NewMCPServer(ServerName, version),
		engine: engine,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Serve reads requests from in and writes responses to out until ctx is
// done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))
	s.logger.Info("mcp server listening on stdio")
	return stdio.Listen(ctx, in, out)
}

type binding struct {
	tool  mcp.Tool
	query queryFunc
}

func (s *Server) bindings() []binding {
	return []binding{
		{docTool(), s.queryDoc},
		{stateDocTool(), s.queryStateDoc},
		{listFunctionsTool(), s.queryListFunctions},
		{listStateFunctionsTool(), s.queryListStateFunctions},
		{listModulesTool(), s.queryListModules},
		{listStateModulesTool(), s.queryListStateModules},
		{argspecTool(), s.queryArgspec},
		{reloadModulesTool(), s.queryReloadModules},
	}
}

func (s *Server) registerTools() {
	for _, b := range s.bindings() {
		s.mcp.AddTool(b.tool, s.handle(b.tool.Name, b.query))
	}
}
