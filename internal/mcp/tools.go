package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/registry"
	"github.com/lrevnic/salt/internal/sysmod"
)

// queryFunc runs one engine operation with the tool call arguments.
type queryFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// handle adapts a queryFunc to an MCP tool handler. An unavailable registry
// becomes a tool error result so the client sees the reason; any other
// failure is a protocol error.
func (s *Server) handle(name string, query queryFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		args, _ := request.Params.Arguments.(map[string]interface{})

		result, err := query(ctx, args)
		if err != nil {
			s.logger.Warn("tool call failed",
				zap.String("tool", name),
				zap.Error(err))
			if errors.Is(err, registry.ErrUnavailable) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		s.logger.Info("tool call",
			zap.String("tool", name),
			zap.Duration("duration", time.Since(start)))
		return mcp.NewToolResultText(formatJSON(result)), nil
	}
}

func (s *Server) queryDoc(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return s.engine.Doc(ctx, getNames(args)...)
}

func (s *Server) queryStateDoc(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return s.engine.StateDoc(ctx, getNames(args)...)
}

func (s *Server) queryListFunctions(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return s.engine.ListFunctions(ctx, getNames(args)...)
}

func (s *Server) queryListStateFunctions(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return s.engine.ListStateFunctions(ctx, getNames(args)...)
}

func (s *Server) queryListModules(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return s.engine.ListModules(ctx)
}

func (s *Server) queryListStateModules(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return s.engine.ListStateModules(ctx)
}

func (s *Server) queryArgspec(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	module, _ := args["module"].(string)
	return s.engine.Argspec(ctx, module)
}

func (s *Server) queryReloadModules(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return s.engine.ReloadModules(ctx)
}

// getNames extracts the optional "names" argument. A single string is
// accepted as a one-element list; non-string items and key=value items are
// ignored.
func getNames(args map[string]interface{}) []string {
	var raw []string
	switch v := args["names"].(type) {
	case string:
		raw = []string{v}
	case []string:
		raw = v
	case []interface{}:
		for _, item := range v {
			if name, ok := item.(string); ok {
				raw = append(raw, name)
			}
		}
	}
	terms, _ := sysmod.SplitArgs(raw)
	return terms
}

// formatJSON formats data as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
