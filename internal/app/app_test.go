package app

import (
	"context"
	"sort"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

func newTestApp(t *testing.T, mutate func(*common.Config)) *App {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Storage.File.Path = t.TempDir()
	cfg.Clients.Gemini.APIKey = ""
	if mutate != nil {
		mutate(cfg)
	}

	a, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

// newInProcessClient creates an mcp-go in-process client connected to the given
// MCP server. Handles initialization handshake.
func newInProcessClient(t *testing.T, mcpServer *server.MCPServer) *client.Client {
	t.Helper()

	c, err := client.NewInProcessClient(mcpServer)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, res.IsError
}

func bondArgs() map[string]any {
	return map[string]any{
		"face_value":            1000.0,
		"coupon_rate_percent":   6.0,
		"frequency":             "semiannual",
		"term_years":            5.0,
		"discount_rate_percent": 7.0,
	}
}

func planArgs() map[string]any {
	return map[string]any{
		"current_age":         30.0,
		"initial_amount":      10000.0,
		"contribution":        500.0,
		"annual_rate_percent": 8.0,
		"frequency":           "monthly",
		"horizon_years":       10.0,
	}
}

func TestNewAppWithConfig_OptionalCollaborators(t *testing.T) {
	a := newTestApp(t, nil)
	assert.Nil(t, a.Summarizer)
	assert.Nil(t, a.Mailer)
	assert.Equal(t, map[string]bool{"AI analysis": false, "Report email": false}, a.Features())

	withSMTP := newTestApp(t, func(cfg *common.Config) {
		cfg.Clients.SMTP.Host = "smtp.test"
		cfg.Clients.SMTP.From = "reports@finsim.test"
	})
	assert.NotNil(t, withSMTP.Mailer)
}

func TestNewAppWithConfig_BadSMTPPolicyDisablesMail(t *testing.T) {
	a := newTestApp(t, func(cfg *common.Config) {
		cfg.Clients.SMTP.Host = "smtp.test"
		cfg.Clients.SMTP.From = "reports@finsim.test"
		cfg.Clients.SMTP.TLSPolicy = "sometimes"
	})
	assert.Nil(t, a.Mailer)
}

func TestRegisteredTools(t *testing.T) {
	a := newTestApp(t, nil)
	c := newInProcessClient(t, a.MCPServer)

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"bond_scenarios", "bond_sensitivity", "bond_yield", "compare_growth",
		"get_version", "periodic_rate", "project_growth", "value_bond",
	}, names)
}

func TestTool_GetVersion(t *testing.T) {
	c := newInProcessClient(t, newTestApp(t, nil).MCPServer)

	text, isErr := callTool(t, c, "get_version", nil)
	assert.False(t, isErr)
	assert.Contains(t, text, "Status: OK")
}

func TestTool_PeriodicRate(t *testing.T) {
	c := newInProcessClient(t, newTestApp(t, nil).MCPServer)

	text, isErr := callTool(t, c, "periodic_rate", map[string]any{
		"annual_rate_percent": 12.0,
		"frequency":           "Semi-Annual",
	})
	assert.False(t, isErr, text)
	assert.Contains(t, text, "Semi-annual (180 days)")
	assert.Contains(t, text, "Periodic rate: 5.830052%")

	text, isErr = callTool(t, c, "periodic_rate", map[string]any{
		"annual_rate_percent": 12.0,
		"frequency":           "weekly",
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "frequency")
}

func TestTool_ProjectGrowth(t *testing.T) {
	c := newInProcessClient(t, newTestApp(t, nil).MCPServer)

	text, isErr := callTool(t, c, "project_growth", planArgs())
	assert.False(t, isErr, text)
	assert.Contains(t, text, "# Investment Projection")
	assert.Contains(t, text, "| Withdrawal | Lump sum |")

	bad := planArgs()
	bad["current_age"] = 12.0
	text, isErr = callTool(t, c, "project_growth", bad)
	assert.True(t, isErr)
	assert.Contains(t, text, "current_age")
}

func TestTool_CompareGrowth(t *testing.T) {
	c := newInProcessClient(t, newTestApp(t, nil).MCPServer)

	args := planArgs()
	args["basis"] = "annual_rate"
	args["option_a"] = 10.0
	args["option_b"] = 6.0
	text, isErr := callTool(t, c, "compare_growth", args)
	assert.False(t, isErr, text)
	assert.Contains(t, text, "**Better option:** A")

	args["basis"] = "inflation"
	_, isErr = callTool(t, c, "compare_growth", args)
	assert.True(t, isErr)

	args["basis"] = "retirement_age"
	args["option_a"] = 60.0
	args["option_b"] = 65.7
	text, isErr = callTool(t, c, "compare_growth", args)
	assert.True(t, isErr)
	assert.Contains(t, text, "option_b")
}

func TestTool_ValueBond(t *testing.T) {
	c := newInProcessClient(t, newTestApp(t, nil).MCPServer)

	text, isErr := callTool(t, c, "value_bond", bondArgs())
	assert.False(t, isErr, text)
	assert.Contains(t, text, "| Bond Present Value | $959.59 |")
	assert.Contains(t, text, "**TOTAL**")

	bad := bondArgs()
	delete(bad, "face_value")
	text, isErr = callTool(t, c, "value_bond", bad)
	assert.True(t, isErr)
	assert.Contains(t, text, "face_value")
}

func TestTool_BondSensitivity(t *testing.T) {
	c := newInProcessClient(t, newTestApp(t, nil).MCPServer)

	args := bondArgs()
	args["rates"] = []any{6.0, 7.0}
	text, isErr := callTool(t, c, "bond_sensitivity", args)
	assert.False(t, isErr, text)
	assert.Contains(t, text, "| 7.00% | $959.59 | $-40.41 |")
	assert.NotContains(t, text, "| 8.00% |")

	delete(args, "rates")
	text, isErr = callTool(t, c, "bond_sensitivity", args)
	assert.False(t, isErr, text)
	assert.Contains(t, text, "| 20.00% |")
}

func TestTool_BondScenarios(t *testing.T) {
	c := newInProcessClient(t, newTestApp(t, nil).MCPServer)

	args := bondArgs()
	args["optimistic_rate_percent"] = 0.0
	text, isErr := callTool(t, c, "bond_scenarios", args)
	assert.False(t, isErr, text)
	assert.Contains(t, text, "| Optimistic | 0.00% |")
	assert.Contains(t, text, "| Pessimistic | 9.00% |")
}

func TestTool_BondYield(t *testing.T) {
	c := newInProcessClient(t, newTestApp(t, nil).MCPServer)

	args := bondArgs()
	delete(args, "discount_rate_percent")
	args["price"] = 959.5853119504412
	text, isErr := callTool(t, c, "bond_yield", args)
	assert.False(t, isErr, text)
	assert.Contains(t, text, "| Annual Yield | 7.0000% |")

	args["price"] = -1.0
	_, isErr = callTool(t, c, "bond_yield", args)
	assert.True(t, isErr)
}

func TestStartScheduler(t *testing.T) {
	a := newTestApp(t, func(cfg *common.Config) {
		cfg.Reports.RetentionSchedule = "@every 1h"
	})
	require.NoError(t, a.StartScheduler())
	a.Close()

	bad := newTestApp(t, func(cfg *common.Config) {
		cfg.Reports.RetentionSchedule = "whenever"
	})
	assert.Error(t, bad.StartScheduler())
}

func TestRetentionJob_KeepsFreshReports(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	r, err := a.ReportService.BuildBondReport(ctx, models.BondParams{
		FaceValue: 1000, CouponRatePercent: 6, Frequency: models.SemiAnnual, TermYears: 5, DiscountRatePercent: 7,
	}, models.ReportOptions{})
	require.NoError(t, err)

	job := &retentionJob{reports: a.ReportService, logger: a.Logger}
	assert.Equal(t, "report-retention", job.Name())
	require.NoError(t, job.Run(ctx))

	_, err = a.ReportService.GetReport(ctx, r.ID)
	assert.NoError(t, err)
}
