package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/bond"
	"github.com/bobmcallan/finsim/internal/services/growth"
	"github.com/bobmcallan/finsim/internal/services/rates"
	"github.com/bobmcallan/finsim/internal/services/report"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("finsim MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handlePeriodicRate implements the periodic_rate tool
func handlePeriodicRate(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		annual, err := request.RequireFloat("annual_rate_percent")
		if err != nil {
			return errorResult("Error: annual_rate_percent parameter is required"), nil
		}
		freq, err := models.ParseFrequency(request.GetString("frequency", ""))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		r, err := rates.Periodic(annual, freq)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		days, _ := rates.DayCount(freq)

		logger.Debug().Float64("annual", annual).Str("frequency", string(freq)).Msg("Periodic rate computed")
		return textResult(fmt.Sprintf("Annual effective rate: %s\nFrequency: %s (%d days)\nPeriodic rate: %.6f%%",
			common.FormatPercent(annual), freq.Label(), days, r*100)), nil
	}
}

// handleProjectGrowth implements the project_growth tool
func handleProjectGrowth(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		plan, err := planFromRequest(request)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		res, err := growth.Run(plan)
		if err != nil {
			logger.Debug().Err(err).Msg("Growth projection rejected")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(report.FormatGrowthMarkdown(res)), nil
	}
}

// handleCompareGrowth implements the compare_growth tool
func handleCompareGrowth(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		plan, err := planFromRequest(request)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		a, errA := request.RequireFloat("option_a")
		b, errB := request.RequireFloat("option_b")
		if errA != nil || errB != nil {
			return errorResult("Error: option_a and option_b parameters are required"), nil
		}

		c, err := growth.Compare(plan, request.GetString("basis", ""), a, b)
		if err != nil {
			logger.Debug().Err(err).Msg("Growth comparison rejected")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(report.FormatComparisonMarkdown(c)), nil
	}
}

// handleValueBond implements the value_bond tool
func handleValueBond(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := bondFromRequest(request)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		v, err := bond.Value(p)
		if err != nil {
			logger.Debug().Err(err).Msg("Bond valuation rejected")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(report.FormatBondMarkdown(v, bond.Interpret(v), bond.Duration(v))), nil
	}
}

// handleBondSensitivity implements the bond_sensitivity tool
func handleBondSensitivity(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := bondFromRequest(request)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		sweep := request.GetFloatSlice("rates", nil)
		if len(sweep) == 0 {
			sweep = bond.DefaultSweep()
		}

		points, err := bond.Sensitivity(p, sweep)
		if err != nil {
			logger.Debug().Err(err).Msg("Bond sensitivity rejected")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(report.FormatSensitivityMarkdown(p.FaceValue, points)), nil
	}
}

// handleBondScenarios implements the bond_scenarios tool
func handleBondScenarios(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := bondFromRequest(request)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		s, err := bond.Scenarios(p,
			optionalFloat(request, "optimistic_rate_percent"),
			optionalFloat(request, "pessimistic_rate_percent"))
		if err != nil {
			logger.Debug().Err(err).Msg("Bond scenarios rejected")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(report.FormatScenariosMarkdown(s)), nil
	}
}

// handleBondYield implements the bond_yield tool
func handleBondYield(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := bondFromRequest(request)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		price, err := request.RequireFloat("price")
		if err != nil {
			return errorResult("Error: price parameter is required"), nil
		}

		y, err := bond.Yield(p, price)
		if err != nil {
			logger.Debug().Err(err).Msg("Yield solve failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString("# Yield to Maturity\n\n")
		sb.WriteString("| Metric | Value |\n|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Price | %s |\n", common.FormatMoney(y.Price)))
		sb.WriteString(fmt.Sprintf("| Face Value | %s |\n", common.FormatMoney(p.FaceValue)))
		sb.WriteString(fmt.Sprintf("| Annual Yield | %.4f%% |\n", y.AnnualRatePercent))
		sb.WriteString(fmt.Sprintf("| Periodic Yield | %.6f%% |\n", y.PeriodicRate*100))
		sb.WriteString(fmt.Sprintf("| Iterations | %d |\n", y.Iterations))
		return textResult(sb.String()), nil
	}
}

func planFromRequest(request mcp.CallToolRequest) (models.GrowthPlan, error) {
	age, err := request.RequireInt("current_age")
	if err != nil {
		return models.GrowthPlan{}, common.InvalidInput("current_age", "is required")
	}
	rate, err := request.RequireFloat("annual_rate_percent")
	if err != nil {
		return models.GrowthPlan{}, common.InvalidInput("annual_rate_percent", "is required")
	}
	freq, err := models.ParseFrequency(request.GetString("frequency", ""))
	if err != nil {
		return models.GrowthPlan{}, err
	}

	return models.GrowthPlan{
		CurrentAge:            age,
		InitialAmount:         request.GetFloat("initial_amount", 0),
		Contribution:          request.GetFloat("contribution", 0),
		AnnualRatePercent:     rate,
		Frequency:             freq,
		HorizonYears:          request.GetInt("horizon_years", 0),
		RetirementAge:         request.GetInt("retirement_age", 0),
		TaxType:               models.TaxType(request.GetString("tax_type", string(models.TaxLocal))),
		Withdrawal:            models.WithdrawalKind(request.GetString("withdrawal", string(models.WithdrawLumpSum))),
		RetirementRatePercent: request.GetFloat("retirement_rate_percent", 0),
	}, nil
}

func bondFromRequest(request mcp.CallToolRequest) (models.BondParams, error) {
	face, err := request.RequireFloat("face_value")
	if err != nil {
		return models.BondParams{}, common.InvalidInput("face_value", "is required")
	}
	coupon, err := request.RequireFloat("coupon_rate_percent")
	if err != nil {
		return models.BondParams{}, common.InvalidInput("coupon_rate_percent", "is required")
	}
	term, err := request.RequireInt("term_years")
	if err != nil {
		return models.BondParams{}, common.InvalidInput("term_years", "is required")
	}
	freq, err := models.ParseFrequency(request.GetString("frequency", ""))
	if err != nil {
		return models.BondParams{}, err
	}

	return models.BondParams{
		FaceValue:           face,
		CouponRatePercent:   coupon,
		Frequency:           freq,
		TermYears:           term,
		DiscountRatePercent: request.GetFloat("discount_rate_percent", 0),
	}, nil
}

// optionalFloat distinguishes an absent argument from an explicit zero.
func optionalFloat(request mcp.CallToolRequest, key string) *float64 {
	if _, ok := request.GetArguments()[key]; !ok {
		return nil
	}
	v := request.GetFloat(key, 0)
	return &v
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
