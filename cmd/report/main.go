// Command report generates a financial leakage report from the command
// line, for operators who want the numbers without running the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/clinicops/leakwatch/internal/adapters/source"
	"github.com/clinicops/leakwatch/internal/application/normalize"
	"github.com/clinicops/leakwatch/internal/application/services"
	"github.com/clinicops/leakwatch/internal/domain/entities"
	"github.com/clinicops/leakwatch/internal/domain/repositories"
	"github.com/clinicops/leakwatch/internal/infrastructure/clients/postgres"
	"github.com/clinicops/leakwatch/internal/infrastructure/clients/sheets"
	"github.com/clinicops/leakwatch/internal/infrastructure/observability"
	"github.com/clinicops/leakwatch/pkg/config"
)

func main() {
	var (
		periodFlag     = flag.String("period", "", "report period as YYYY-MM (default: latest available)")
		throughputFlag = flag.Float64("throughput", 0, "override shifts-per-room throughput (0 uses per-service values)")
		recoveryFlag   = flag.Float64("recovery", 0, "recovery target percentage 0-100")
		formatFlag     = flag.String("format", "text", "output format: text or json")
		listFlag       = flag.Bool("list", false, "list available periods and exit")
	)
	flag.Parse()

	if *formatFlag != "text" && *formatFlag != "json" {
		fmt.Fprintln(os.Stderr, "format must be text or json")
		os.Exit(2)
	}
	if *recoveryFlag < 0 || *recoveryFlag > 100 {
		fmt.Fprintln(os.Stderr, "recovery must be between 0 and 100")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("leakwatch-report", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshots, cleanup, err := buildSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	normalizer := normalize.NewNormalizer(normalize.NewRioplatenseLocale())
	reportService := services.NewReportService(snapshots, normalizer)

	periods, err := reportService.AvailablePeriods(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *listFlag {
		for _, p := range periods {
			fmt.Println(p)
		}
		return
	}

	period := periods[len(periods)-1]
	if *periodFlag != "" {
		period, err = entities.ParsePeriod(*periodFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
	}

	req := services.FinancialReportRequest{
		Period:            period,
		RecoveryTargetPct: *recoveryFlag,
	}
	if *throughputFlag > 0 {
		req.ThroughputOverride = throughputFlag
	}

	report, err := reportService.Generate(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *formatFlag == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printTextReport(report)
}

func buildSource(cfg *config.Config) (repositories.SnapshotRepository, func(), error) {
	switch cfg.Source.Backend {
	case "postgres":
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL client: %w", err)
		}
		return source.NewPostgresAdapter(pgClient), func() { pgClient.Close() }, nil
	case "sheets":
		return source.NewSheetsAdapter(sheets.NewClient(), cfg.Sheets), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown source backend %q", cfg.Source.Backend)
	}
}

func printTextReport(report *services.FinancialReport) {
	s := report.Summary
	fmt.Printf("Financial report for %s\n\n", report.Period)
	fmt.Printf("  Revenue:              $%s\n", s.TotalRevenue)
	fmt.Printf("  Lost revenue:         $%s\n", s.TotalLostRevenue)
	fmt.Printf("  Potential:            $%s\n", s.TotalPotential)
	fmt.Printf("  Leakage:              %.1f%%\n", s.LeakPercent)
	fmt.Printf("  Annual projection:    $%s\n", s.AnnualProjection)
	fmt.Printf("  Offered shifts:       %d\n", s.OfferedShifts)
	fmt.Printf("  Lost shifts:          %.1f\n", s.LostShifts)
	if s.RecoveryTargetPct > 0 {
		fmt.Printf("  Recoverable (%.0f%%):    $%s\n", s.RecoveryTargetPct, s.RecoverableRevenue)
	}

	if len(report.TopLosses) > 0 {
		fmt.Printf("\nTop services by lost revenue:\n")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  SERVICE\tLOST SHIFTS\tLOST REVENUE")
		// Ranked ascending; print largest first for the terminal.
		for i := len(report.TopLosses) - 1; i >= 0; i-- {
			loss := report.TopLosses[i]
			fmt.Fprintf(w, "  %s\t%.1f\t$%s\n", loss.ServiceCode, loss.LostShifts, loss.LostRevenue)
		}
		w.Flush()
	}

	if len(report.Warnings) > 0 {
		fmt.Printf("\n%d data quality warning(s); run with -format json for details\n", len(report.Warnings))
	}
}
