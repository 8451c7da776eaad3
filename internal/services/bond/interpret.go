package bond

import (
	"fmt"
	"math"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

// Interpret explains a valuation in plain English.
func Interpret(v *models.BondValuation) models.BondInterpretation {
	coupon := v.Params.CouponRatePercent
	disc := v.Params.DiscountRatePercent
	gap := common.FormatMoney(math.Abs(v.Difference))

	switch v.Classification {
	case models.BondPremium:
		return models.BondInterpretation{
			Headline: "Premium bond (above par)",
			Detail:   fmt.Sprintf("The bond trades at a premium. Its present value is %s above face value.", gap),
			Reason: fmt.Sprintf("The coupon rate (%.2f%%) is higher than the discount rate (%.2f%%), so the bond is worth more than its face value.",
				coupon, disc),
			Recommendations: []string{
				"The bond is attractive to buy (it trades at a premium)",
				"The coupon rate is higher than the required return",
				"Consider holding to maturity",
			},
		}
	case models.BondDiscount:
		return models.BondInterpretation{
			Headline: "Discount bond (below par)",
			Detail:   fmt.Sprintf("The bond trades at a discount. Its present value is %s below face value.", gap),
			Reason: fmt.Sprintf("The coupon rate (%.2f%%) is lower than the discount rate (%.2f%%), so the bond is worth less than its face value.",
				coupon, disc),
			Recommendations: []string{
				"The bond may be a buying opportunity (it trades at a discount)",
				"The coupon rate is lower than the required return",
				"A capital gain is possible if rates fall",
			},
		}
	}
	return models.BondInterpretation{
		Headline: "Bond at par",
		Detail:   "The bond trades at par. Its present value equals face value.",
		Reason:   "The coupon rate and the discount rate are equal.",
		Recommendations: []string{
			"The bond trades at its fair value",
			"Its return matches the required return",
			"Neutral buy or sell decision",
		},
	}
}
