package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhq/revu/internal/ai"
	"github.com/revuhq/revu/internal/models"
	"github.com/revuhq/revu/internal/review"
	"github.com/revuhq/revu/internal/store"
)

type stubGenerator struct {
	output models.ReviewOutput
	err    error
}

func (g *stubGenerator) Generate(ctx context.Context, code, lang string) (models.ReviewOutput, error) {
	if g.err != nil {
		return models.ReviewOutput{}, g.err
	}
	return g.output, nil
}

func newTestServer(t *testing.T) (*Server, *models.User) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })

	u := &models.User{Email: "agent@example.com", Name: "agent"}
	require.NoError(t, s.CreateUser(context.Background(), u, "x"))

	out, _ := ai.Normalize(`{"errors":[],"summary":"ok"}`)
	svc := review.NewService(s, &stubGenerator{output: out}, nil)

	return NewServer(svc, u), u
}

// callToolReq builds a mcpgo.CallToolRequest with the given name and arguments.
func callToolReq(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the concatenated text from a CallToolResult.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		tc, ok := c.(mcpgo.TextContent)
		if ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func TestMCPServer_RegistersTools(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.NotNil(t, srv.MCPServer())
}

func TestHandleAnalyze(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	req := callToolReq("revu_analyze", map[string]any{
		"code":     "def f(x): return x+1",
		"language": "python",
	})
	result, err := srv.handleAnalyze(ctx, req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var r models.Review
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &r))
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "ok", r.Output.Summary)
}

func TestHandleAnalyze_MissingCode(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	req := callToolReq("revu_analyze", map[string]any{"language": "python"})
	result, err := srv.handleAnalyze(ctx, req)
	require.NoError(t, err, "handler should not return Go error; should wrap in result")
	assert.True(t, result.IsError)
}

func TestHandleHistoryAndGetAndDelete(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	req := callToolReq("revu_analyze", map[string]any{"code": "x", "language": "go"})
	result, err := srv.handleAnalyze(ctx, req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var created models.Review
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &created))

	result, err = srv.handleHistory(ctx, callToolReq("revu_history", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), created.ID)

	result, err = srv.handleGetReview(ctx, callToolReq("revu_get_review", map[string]any{"id": created.ID}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, err = srv.handleDeleteReview(ctx, callToolReq("revu_delete_review", map[string]any{"id": created.ID}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, err = srv.handleGetReview(ctx, callToolReq("revu_get_review", map[string]any{"id": created.ID}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "deleted review reads as missing")
}
