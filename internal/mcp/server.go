// Package mcp exposes the review pipeline as MCP tools over stdio, so
// coding agents can request reviews without going through the HTTP API.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/revuhq/revu/internal/models"
	"github.com/revuhq/revu/internal/review"
)

// Server wraps the review service and exposes it as MCP tools. All tools
// operate as the single user the server was started for.
type Server struct {
	reviews *review.Service
	user    *models.User
}

// NewServer creates the MCP server wrapper bound to one user.
func NewServer(r *review.Service, u *models.User) *Server {
	return &Server{reviews: r, user: u}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("revu", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.analyzeTool())
	srv.AddTool(s.historyTool())
	srv.AddTool(s.getReviewTool())
	srv.AddTool(s.deleteReviewTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// revu_analyze
func (s *Server) analyzeTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("revu_analyze",
		mcp.WithDescription("Analyze a code snippet and return a structured review (errors, improvements, security issues, clean code notes, complexity, refactored code, summary). The review is stored in the user's history."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Source code to review")),
		mcp.WithString("language", mcp.Required(), mcp.Description("Language tag, e.g. python, go, javascript")),
	)
	return tool, s.handleAnalyze
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := request.GetString("code", "")
	lang := request.GetString("language", "")

	r, err := s.reviews.Analyze(ctx, s.user.ID, code, lang)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analyze failed: %v", err)), nil
	}
	return jsonResult(r)
}

// revu_history
func (s *Server) historyTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("revu_history",
		mcp.WithDescription("List the user's past reviews, newest first. Returns id, language, summary, and creation time for each."),
	)
	return tool, s.handleHistory
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := s.reviews.History(ctx, s.user.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list history: %v", err)), nil
	}
	return jsonResult(history)
}

// revu_get_review
func (s *Server) getReviewTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("revu_get_review",
		mcp.WithDescription("Fetch one stored review by id, including the submitted code and the full structured output."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Review id")),
	)
	return tool, s.handleGetReview
}

func (s *Server) handleGetReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	r, err := s.reviews.Get(ctx, s.user.ID, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get review: %v", err)), nil
	}
	return jsonResult(r)
}

// revu_delete_review
func (s *Server) deleteReviewTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("revu_delete_review",
		mcp.WithDescription("Delete one stored review by id. Irreversible."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Review id")),
	)
	return tool, s.handleDeleteReview
}

func (s *Server) handleDeleteReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if err := s.reviews.Delete(ctx, s.user.ID, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete review: %v", err)), nil
	}
	return mcp.NewToolResultText(`{"deleted":true}`), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
