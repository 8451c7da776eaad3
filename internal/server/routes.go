package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/finsim/internal/models"
)

// setupRoutes registers the REST API and the MCP endpoint.
func (s *Server) setupRoutes() {
	s.router.Handle("/mcp", s.mcp)

	s.router.Route("/api", func(r chi.Router) {
		// System
		r.Get("/health", s.handleHealth)
		r.Head("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/diagnostics", s.handleDiagnostics)

		// Calculators
		r.Post("/rates/periodic", s.handlePeriodicRate)
		r.Route("/growth", func(r chi.Router) {
			r.Post("/projections", s.handleGrowthProjection)
			r.Post("/comparisons", s.handleGrowthComparison)
		})
		r.Route("/bonds", func(r chi.Router) {
			r.Post("/valuations", s.handleBondValuation)
			r.Post("/sensitivity", s.handleBondSensitivity)
			r.Post("/scenarios", s.handleBondScenarios)
			r.Post("/yield", s.handleBondYield)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleReportList)
			r.Post("/growth", s.handleGrowthReport)
			r.Post("/bond", s.handleBondReport)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleReportGet)
				r.Get("/pdf", s.handleReportArtifact(models.ArtifactPDF))
				r.Get("/csv", s.handleReportArtifact(models.ArtifactCSV))
				r.Post("/email", s.handleReportEmail)
			})
		})
	})
}
