package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/app"
	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/server"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Storage.File.Path = t.TempDir()
	cfg.Clients.Gemini.APIKey = ""

	a, err := app.NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

const initializeLine = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`

func TestStdioProxy_ForwardsToServer(t *testing.T) {
	ts := httptest.NewServer(server.NewServer(newTestApp(t)).Handler())
	defer ts.Close()

	input := initializeLine + "\n\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"periodic_rate","arguments":{"annual_rate_percent":12,"frequency":"semiannual"}}}` + "\n"

	var out bytes.Buffer
	require.NoError(t, NewStdioProxy(ts.URL).RunWithIO(strings.NewReader(input), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"serverInfo"`)
	assert.Contains(t, lines[1], "5.830052%")
}

func TestStdioProxy_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	var out bytes.Buffer
	require.NoError(t, NewStdioProxy(ts.URL).RunWithIO(strings.NewReader(`{"jsonrpc":"2.0","id":7,"method":"ping"}`+"\n"), &out))

	var resp struct {
		ID    int `json:"id"`
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, 7, resp.ID)
	assert.Equal(t, -32000, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "502")
}

func TestStdioProxy_Unavailable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewStdioProxy("http://127.0.0.1:1").RunWithIO(strings.NewReader("not json\n"), &out))
	assert.Contains(t, out.String(), `"id":null`)
	assert.Contains(t, out.String(), "server request failed")
}

// TestStdioServer runs the in-process MCP server over pipes, the path a
// desktop MCP client takes through `finsim mcp`.
func TestStdioServer(t *testing.T) {
	a := newTestApp(t)
	stdio := mcpserver.NewStdioServer(a.MCPServer)

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = stdio.Listen(ctx, serverIn, serverOut)
	}()

	tr := transport.NewIO(clientIn, clientOut, io.NopCloser(strings.NewReader("")))
	require.NoError(t, tr.Start(context.Background()))
	c := client.NewClient(tr)

	t.Cleanup(func() {
		c.Close()
		cancel()
		serverIn.Close()
		clientIn.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	})

	initCtx, initCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer initCancel()
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "stdio-test", Version: "1.0.0"}
	_, err := c.Initialize(initCtx, initReq)
	require.NoError(t, err)

	req := mcp.CallToolRequest{}
	req.Params.Name = "value_bond"
	req.Params.Arguments = map[string]any{
		"face_value":            1000.0,
		"coupon_rate_percent":   6.0,
		"frequency":             "semiannual",
		"term_years":            5.0,
		"discount_rate_percent": 7.0,
	}
	res, err := c.CallTool(initCtx, req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "$959.59")
}
