package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "airlock"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server wires a game session's tools onto an MCP server.
type Server struct {
	mcpServer *mcp.Server
	session   *Session
}

// NewServer builds an MCP server exposing the session's game tools.
func NewServer(session *Session) (*Server, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		Instructions: "Run a tabletop game session. Use game_state to inspect the table, " +
			"available_actions to discover a character's options, and perform_action to resolve them.",
	})

	mcp.AddTool(mcpServer, CreateCharacterTool(), CreateCharacterHandler(session))
	mcp.AddTool(mcpServer, PerformActionTool(), PerformActionHandler(session))
	mcp.AddTool(mcpServer, GetCharacterTool(), GetCharacterHandler(session))
	mcp.AddTool(mcpServer, ListCharactersTool(), ListCharactersHandler(session))
	mcp.AddTool(mcpServer, GameStateTool(), GameStateHandler(session))
	mcp.AddTool(mcpServer, AvailableActionsTool(), AvailableActionsHandler(session))
	mcp.AddTool(mcpServer, SaveGameTool(), SaveGameHandler(session))
	mcp.AddTool(mcpServer, LoadGameTool(), LoadGameHandler(session))

	return &Server{mcpServer: mcpServer, session: session}, nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
