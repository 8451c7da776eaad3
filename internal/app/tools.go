package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var frequencyEnum = []string{"monthly", "bimonthly", "quarterly", "four_monthly", "semiannual", "annual"}

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the finsim server version and status. Use this to verify connectivity."),
	)
}

// createPeriodicRateTool returns the periodic_rate tool definition
func createPeriodicRateTool() mcp.Tool {
	return mcp.NewTool("periodic_rate",
		mcp.WithDescription("Convert an annual effective rate (TEA) into the equivalent rate per payment period, using a 360-day year."),
		mcp.WithNumber("annual_rate_percent",
			mcp.Required(),
			mcp.Description("Annual effective rate in percent (e.g., 12 for 12%)"),
		),
		mcp.WithString("frequency",
			mcp.Required(),
			mcp.Enum(frequencyEnum...),
			mcp.Description("Period length"),
		),
	)
}

func planOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("current_age",
			mcp.Required(),
			mcp.Description("Investor age today, 18 to 100"),
		),
		mcp.WithNumber("initial_amount",
			mcp.Description("Amount invested today (default: 0)"),
		),
		mcp.WithNumber("contribution",
			mcp.Description("Amount added every period (default: 0). Initial amount and contribution cannot both be zero."),
		),
		mcp.WithNumber("annual_rate_percent",
			mcp.Required(),
			mcp.Description("Expected annual effective return in percent"),
		),
		mcp.WithString("frequency",
			mcp.Required(),
			mcp.Enum(frequencyEnum...),
			mcp.Description("Contribution frequency"),
		),
		mcp.WithNumber("horizon_years",
			mcp.Description("Investment horizon in years, 1 to 70. Ignored when retirement_age is set."),
		),
		mcp.WithNumber("retirement_age",
			mcp.Description("Age at withdrawal. Takes precedence over horizon_years."),
		),
		mcp.WithString("tax_type",
			mcp.Enum("local", "foreign"),
			mcp.Description("Capital gains regime: local (5%) or foreign (29.5%). Default: local"),
		),
		mcp.WithString("withdrawal",
			mcp.Enum("lump_sum", "pension"),
			mcp.Description("Payout: lump_sum or a monthly pension. Default: lump_sum"),
		),
		mcp.WithNumber("retirement_rate_percent",
			mcp.Description("Annual rate earned during retirement, pension only (default: annual_rate_percent)"),
		),
	}
}

// createProjectGrowthTool returns the project_growth tool definition
func createProjectGrowthTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Project an investment plan period by period. Returns the summary (final balance, gain, tax, payout) and the annual ledger."),
	}, planOptions()...)
	return mcp.NewTool("project_growth", opts...)
}

// createCompareGrowthTool returns the compare_growth tool definition
func createCompareGrowthTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Compare two variants of an investment plan, either two retirement ages or two annual rates, and report which pays out more."),
		mcp.WithString("basis",
			mcp.Required(),
			mcp.Enum("retirement_age", "annual_rate"),
			mcp.Description("What differs between the options"),
		),
		mcp.WithNumber("option_a",
			mcp.Required(),
			mcp.Description("Retirement age or annual rate percent of option A"),
		),
		mcp.WithNumber("option_b",
			mcp.Required(),
			mcp.Description("Retirement age or annual rate percent of option B"),
		),
	}, planOptions()...)
	return mcp.NewTool("compare_growth", opts...)
}

func bondOptions(discountRequired bool) []mcp.ToolOption {
	discount := []mcp.PropertyOption{mcp.Description("Required annual effective return in percent, used to discount the cash flows")}
	if discountRequired {
		discount = append(discount, mcp.Required())
	}
	return []mcp.ToolOption{
		mcp.WithNumber("face_value",
			mcp.Required(),
			mcp.Description("Nominal value repaid at maturity"),
		),
		mcp.WithNumber("coupon_rate_percent",
			mcp.Required(),
			mcp.Description("Annual effective coupon rate in percent"),
		),
		mcp.WithString("frequency",
			mcp.Required(),
			mcp.Enum(frequencyEnum...),
			mcp.Description("Coupon frequency"),
		),
		mcp.WithNumber("term_years",
			mcp.Required(),
			mcp.Description("Years to maturity"),
		),
		mcp.WithNumber("discount_rate_percent", discount...),
	}
}

// createValueBondTool returns the value_bond tool definition
func createValueBondTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Value a coupon bond by discounting its cash flows. Returns present value, premium/discount/par classification, interpretation, duration and the cash-flow ledger."),
	}, bondOptions(true)...)
	return mcp.NewTool("value_bond", opts...)
}

// createBondSensitivityTool returns the bond_sensitivity tool definition
func createBondSensitivityTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Value a bond across a range of discount rates. Defaults to 1% through 20% in 0.5% steps."),
		mcp.WithArray("rates",
			mcp.Items(map[string]any{"type": "number"}),
			mcp.Description("Discount rates in percent to evaluate (optional)"),
		),
	}, bondOptions(false)...)
	return mcp.NewTool("bond_sensitivity", opts...)
}

// createBondScenariosTool returns the bond_scenarios tool definition
func createBondScenariosTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Compare the bond value at the base discount rate with an optimistic (lower) and a pessimistic (higher) rate."),
		mcp.WithNumber("optimistic_rate_percent",
			mcp.Description("Override for the optimistic rate (default: base - 2, or 1 when base <= 2)"),
		),
		mcp.WithNumber("pessimistic_rate_percent",
			mcp.Description("Override for the pessimistic rate (default: base + 2)"),
		),
	}, bondOptions(true)...)
	return mcp.NewTool("bond_scenarios", opts...)
}

// createBondYieldTool returns the bond_yield tool definition
func createBondYieldTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Solve the annual effective yield to maturity that prices the bond at a given market price."),
		mcp.WithNumber("price",
			mcp.Required(),
			mcp.Description("Market price of the bond"),
		),
	}, bondOptions(false)...)
	return mcp.NewTool("bond_yield", opts...)
}
