package server

import (
	"net/http"

	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/bond"
	"github.com/bobmcallan/finsim/internal/services/growth"
	"github.com/bobmcallan/finsim/internal/services/rates"
)

// PeriodicRateRequest converts an annual effective rate.
type PeriodicRateRequest struct {
	AnnualRatePercent float64          `json:"annual_rate_percent"`
	Frequency         models.Frequency `json:"frequency"`
}

// PeriodicRateResponse is the converted rate. PeriodicRate is a fraction.
type PeriodicRateResponse struct {
	AnnualRatePercent float64          `json:"annual_rate_percent"`
	Frequency         models.Frequency `json:"frequency"`
	Days              int              `json:"days"`
	PeriodsPerYear    int              `json:"periods_per_year"`
	PeriodicRate      float64          `json:"periodic_rate"`
}

// ComparisonRequest runs a plan under two retirement ages or two rates.
type ComparisonRequest struct {
	Plan    models.GrowthPlan `json:"plan"`
	Basis   string            `json:"basis"`
	OptionA float64           `json:"option_a"`
	OptionB float64           `json:"option_b"`
}

// BondValuationResponse bundles a valuation with its reading.
type BondValuationResponse struct {
	Valuation      *models.BondValuation     `json:"valuation"`
	Interpretation models.BondInterpretation `json:"interpretation"`
	Duration       models.BondDuration       `json:"duration"`
}

// SensitivityRequest sweeps discount rates. An empty Rates uses the default
// 1% to 20% sweep.
type SensitivityRequest struct {
	models.BondParams
	Rates []float64 `json:"rates,omitempty"`
}

// ScenariosRequest overrides the optimistic or pessimistic rate when set.
type ScenariosRequest struct {
	models.BondParams
	OptimisticRatePercent  *float64 `json:"optimistic_rate_percent,omitempty"`
	PessimisticRatePercent *float64 `json:"pessimistic_rate_percent,omitempty"`
}

// YieldRequest solves for the rate that prices the bond at Price.
type YieldRequest struct {
	models.BondParams
	Price float64 `json:"price"`
}

func (s *Server) handlePeriodicRate(w http.ResponseWriter, r *http.Request) {
	var req PeriodicRateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	freq, err := models.ParseFrequency(string(req.Frequency))
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}

	periodic, err := rates.Periodic(req.AnnualRatePercent, freq)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	days, _ := rates.DayCount(freq)
	ppy, _ := rates.PeriodsPerYear(freq)

	WriteJSON(w, http.StatusOK, PeriodicRateResponse{
		AnnualRatePercent: req.AnnualRatePercent,
		Frequency:         freq,
		Days:              days,
		PeriodsPerYear:    ppy,
		PeriodicRate:      periodic,
	})
}

func (s *Server) handleGrowthProjection(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.decodePlan(w, r)
	if !ok {
		return
	}
	res, err := growth.Run(plan)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleGrowthComparison(w http.ResponseWriter, r *http.Request) {
	var req ComparisonRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	plan, err := req.Plan.Canonical()
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}

	c, err := growth.Compare(plan, req.Basis, req.OptionA, req.OptionB)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleBondValuation(w http.ResponseWriter, r *http.Request) {
	var p models.BondParams
	if !DecodeJSON(w, r, &p) {
		return
	}
	p, err := p.Canonical()
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}

	v, err := bond.Value(p)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, BondValuationResponse{
		Valuation:      v,
		Interpretation: bond.Interpret(v),
		Duration:       bond.Duration(v),
	})
}

func (s *Server) handleBondSensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	p, err := req.BondParams.Canonical()
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	sweep := req.Rates
	if len(sweep) == 0 {
		sweep = bond.DefaultSweep()
	}

	points, err := bond.Sensitivity(p, sweep)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, points)
}

func (s *Server) handleBondScenarios(w http.ResponseWriter, r *http.Request) {
	var req ScenariosRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	p, err := req.BondParams.Canonical()
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}

	sc, err := bond.Scenarios(p, req.OptimisticRatePercent, req.PessimisticRatePercent)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, sc)
}

func (s *Server) handleBondYield(w http.ResponseWriter, r *http.Request) {
	var req YieldRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	p, err := req.BondParams.Canonical()
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}

	y, err := bond.Yield(p, req.Price)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, y)
}

func (s *Server) decodePlan(w http.ResponseWriter, r *http.Request) (models.GrowthPlan, bool) {
	var plan models.GrowthPlan
	if !DecodeJSON(w, r, &plan) {
		return plan, false
	}
	plan, err := plan.Canonical()
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return plan, false
	}
	return plan, true
}
