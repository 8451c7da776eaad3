package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/finsim/internal/app"
	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/report"
)

type reportFlags struct {
	out      string
	analysis bool
	email    string
	name     string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.out, "out", ".", "Directory the PDF and CSV are written to")
	fs.BoolVar(&f.analysis, "analysis", false, "Include AI analysis (needs a Gemini API key)")
	fs.StringVar(&f.email, "email", "", "Also e-mail the PDF to this address")
	fs.StringVar(&f.name, "name", "", "Recipient name for --email")
}

func newReportCmd() *cobra.Command {
	var rf reportFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render, archive and export a PDF and CSV report",
	}
	rf.register(cmd)

	var pf planFlags
	growthCmd := &cobra.Command{
		Use:   "growth",
		Short: "Investment projection report",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := pf.plan()
			if err != nil {
				return err
			}
			return runReport(cmd, &rf, func(ctx context.Context, svc reportBuilder) (*models.Report, error) {
				return svc.BuildGrowthReport(ctx, plan, models.ReportOptions{IncludeAnalysis: rf.analysis})
			})
		},
	}
	pf.register(growthCmd)

	var bf bondFlags
	bondCmd := &cobra.Command{
		Use:   "bond",
		Short: "Bond valuation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := bf.params()
			if err != nil {
				return err
			}
			return runReport(cmd, &rf, func(ctx context.Context, svc reportBuilder) (*models.Report, error) {
				return svc.BuildBondReport(ctx, p, models.ReportOptions{IncludeAnalysis: rf.analysis})
			})
		},
	}
	bf.register(bondCmd)

	cmd.AddCommand(growthCmd, bondCmd)
	return cmd
}

type reportBuilder interface {
	BuildGrowthReport(ctx context.Context, plan models.GrowthPlan, opts models.ReportOptions) (*models.Report, error)
	BuildBondReport(ctx context.Context, params models.BondParams, opts models.ReportOptions) (*models.Report, error)
}

func runReport(cmd *cobra.Command, rf *reportFlags, build func(context.Context, reportBuilder) (*models.Report, error)) error {
	configPath, _ := cmd.Flags().GetString("config")
	a, err := app.NewApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rep, err := build(ctx, a.ReportService)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(rf.out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out := cmd.OutOrStdout()
	base := fmt.Sprintf("report_%s_%s", rep.Kind.Slug(), rep.CreatedAt.Format("20060102_150405"))
	for _, artifact := range []models.Artifact{models.ArtifactPDF, models.ArtifactCSV} {
		data, err := a.ReportService.GetArtifact(ctx, rep.ID, artifact)
		if err != nil {
			return err
		}
		path := filepath.Join(rf.out, base+"."+string(artifact))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "Wrote %s (%d bytes)\n", path, len(data))
	}

	fmt.Fprintf(out, "Report %s archived at %s\n\n", rep.ID, a.Config.Storage.Address())
	if err := writeMetrics(out, rep.Metrics); err != nil {
		return err
	}
	if rep.Analysis != "" {
		fmt.Fprintf(out, "\n%s\n", rep.Analysis)
	}

	if rf.email != "" {
		res, err := a.ReportService.EmailReport(ctx, rep.ID, models.Recipient{Name: rf.name, Email: rf.email})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nE-mail to %s: %s\n", res.Recipient, res.Message)
	}
	return nil
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Print the text of a rendered PDF report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			text, err := report.ExtractPDFText(data)
			if err != nil {
				return err
			}
			if text == "" {
				return common.InvalidInput("file", "%s holds no extractable text", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
