package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/finsim/internal/clients/gemini"
	"github.com/bobmcallan/finsim/internal/clients/mailer"
	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/interfaces"
	"github.com/bobmcallan/finsim/internal/services/report"
	"github.com/bobmcallan/finsim/internal/storage"
)

// App holds all initialized services, clients, and the MCP server.
// It is the shared core used by cmd/finsim-server and the report commands of
// cmd/finsim.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Blobs         storage.BlobStore
	Reports       interfaces.ReportStore
	Summarizer    interfaces.Summarizer
	Mailer        interfaces.Mailer
	ReportService interfaces.ReportService
	MCPServer     *server.MCPServer
	StartupTime   time.Time

	scheduler *Scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the explicit path, FINSIM_CONFIG,
// finsim.toml next to the binary, then config/finsim.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("FINSIM_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "finsim.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finsim.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads configuration and initializes all services, clients, storage,
// and the MCP server. configPath may be empty.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	return NewAppWithConfig(context.Background(), config, logger)
}

// NewAppWithConfig wires an App from an already loaded config.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	blobs, err := storage.NewBlobStore(ctx, logger, config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	reports := storage.NewReportStore(blobs, logger)

	// Optional collaborators stay untyped nil when unconfigured
	var summarizer interfaces.Summarizer
	if config.Clients.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClientFromConfig(ctx, config.Clients.Gemini, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			summarizer = geminiClient
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - AI analysis will be unavailable")
	}

	var mail interfaces.Mailer
	if config.Clients.SMTP.Enabled() {
		mailClient, err := mailer.NewClient(config.Clients.SMTP, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize SMTP mailer")
		} else {
			mail = mailClient
		}
	} else {
		logger.Warn().Msg("SMTP not configured - report e-mail will be unavailable")
	}

	reportService := report.NewService(reports, summarizer, mail, config.Reports, logger)

	mcpServer := server.NewMCPServer(
		"finsim",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		Blobs:         blobs,
		Reports:       reports,
		Summarizer:    summarizer,
		Mailer:        mail,
		ReportService: reportService,
		MCPServer:     mcpServer,
		StartupTime:   startupStart,
	}

	a.registerTools()

	logger.Info().
		Str("archive", config.Storage.Address()).
		Bool("ai_analysis", summarizer != nil).
		Bool("email", mail != nil).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Features reports which optional collaborators are configured, for the
// startup banner.
func (a *App) Features() map[string]bool {
	return map[string]bool{
		"AI analysis":  a.Summarizer != nil,
		"Report email": a.Mailer != nil,
	}
}

// StartScheduler launches the archive retention job.
func (a *App) StartScheduler() error {
	s := NewScheduler(a.Logger)
	job := &retentionJob{reports: a.ReportService, logger: a.Logger}
	if err := s.AddJob(a.Config.Reports.RetentionSchedule, job); err != nil {
		return fmt.Errorf("failed to schedule retention: %w", err)
	}
	s.Start()
	a.scheduler = s
	return nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createPeriodicRateTool(), handlePeriodicRate(logger))
	s.AddTool(createProjectGrowthTool(), handleProjectGrowth(logger))
	s.AddTool(createCompareGrowthTool(), handleCompareGrowth(logger))
	s.AddTool(createValueBondTool(), handleValueBond(logger))
	s.AddTool(createBondSensitivityTool(), handleBondSensitivity(logger))
	s.AddTool(createBondScenariosTool(), handleBondScenarios(logger))
	s.AddTool(createBondYieldTool(), handleBondYield(logger))
}
