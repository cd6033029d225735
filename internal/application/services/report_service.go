// Package services orchestrates the report pipeline: snapshot retrieval,
// normalization, filtering, derivation and aggregation.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicops/leakwatch/internal/application/normalize"
	"github.com/clinicops/leakwatch/internal/application/pipeline"
	"github.com/clinicops/leakwatch/internal/domain/entities"
	"github.com/clinicops/leakwatch/internal/domain/repositories"
	"github.com/clinicops/leakwatch/internal/infrastructure/observability"
	apperrors "github.com/clinicops/leakwatch/pkg/errors"
)

// FinancialReportRequest carries the validated parameters of one report run
type FinancialReportRequest struct {
	Period entities.Period
	// ThroughputOverride replaces every service's throughput when non-nil
	ThroughputOverride *float64
	// RecoveryTargetPct scales lost revenue into a recoverable figure (0-100)
	RecoveryTargetPct float64
}

// FinancialReport is the complete output of one report run. Two runs over
// the same snapshot and parameters produce identical reports except RunID.
type FinancialReport struct {
	RunID     uuid.UUID                    `json:"run_id"`
	Period    string                       `json:"period"`
	Summary   pipeline.FinancialSummary    `json:"summary"`
	TopLosses []pipeline.ServiceLoss       `json:"top_losses"`
	Details   []entities.DerivedLossRecord `json:"details"`
	Warnings  []normalize.Warning          `json:"warnings"`
}

// ReportService generates financial leakage reports from raw snapshots
type ReportService struct {
	snapshots  repositories.SnapshotRepository
	normalizer *normalize.Normalizer
}

// NewReportService creates a new report service
func NewReportService(snapshots repositories.SnapshotRepository, normalizer *normalize.Normalizer) *ReportService {
	return &ReportService{snapshots: snapshots, normalizer: normalizer}
}

// AvailablePeriods returns the periods a financial report can be generated
// for, ascending. The rate table is authoritative: a period without rates
// cannot be priced.
func (s *ReportService) AvailablePeriods(ctx context.Context) ([]entities.Period, error) {
	set, err := s.snapshots.FinancialTables(ctx)
	if err != nil {
		observability.ReportErrors.WithLabelValues("financial", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}
	rates, _, err := s.normalizer.Rates(&set.Rates)
	if err != nil {
		observability.ReportErrors.WithLabelValues("financial", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}

	periods := pipeline.AvailablePeriods(rates)
	if len(periods) == 0 {
		err := apperrors.NewEmptyStateError("rate table has no usable periods")
		observability.ReportErrors.WithLabelValues("financial", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}
	return periods, nil
}

// Generate runs the full pipeline for one period and returns the report
func (s *ReportService) Generate(ctx context.Context, req FinancialReportRequest) (*FinancialReport, error) {
	report, err := s.generate(ctx, req)
	if err != nil {
		observability.ReportErrors.WithLabelValues("financial", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}
	observability.ReportsGenerated.WithLabelValues("financial").Inc()
	return report, nil
}

func (s *ReportService) generate(ctx context.Context, req FinancialReportRequest) (*FinancialReport, error) {
	set, err := s.snapshots.FinancialTables(ctx)
	if err != nil {
		return nil, err
	}

	offers, offerWarnings, err := s.normalizer.Offers(&set.Offers)
	if err != nil {
		return nil, err
	}
	absences, absenceWarnings, err := s.normalizer.Absences(&set.Absences)
	if err != nil {
		return nil, err
	}
	rates, rateWarnings, err := s.normalizer.Rates(&set.Rates)
	if err != nil {
		return nil, err
	}

	warnings := make([]normalize.Warning, 0, len(offerWarnings)+len(absenceWarnings)+len(rateWarnings))
	warnings = append(warnings, offerWarnings...)
	warnings = append(warnings, absenceWarnings...)
	warnings = append(warnings, rateWarnings...)
	s.recordDefaults(warnings)

	available := pipeline.AvailablePeriods(rates)
	if len(available) == 0 {
		return nil, apperrors.NewEmptyStateError("rate table has no usable periods")
	}
	if !containsPeriod(available, req.Period) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no rate data for period %s", req.Period))
	}

	periodOffers := pipeline.FilterOffers(offers, req.Period)
	periodAbsences := pipeline.FilterAbsences(absences, req.Period)
	periodRates := pipeline.FilterRates(rates, req.Period)

	income, losses := pipeline.Derive(periodOffers, periodAbsences, periodRates, req.ThroughputOverride)

	report := &FinancialReport{
		RunID:     uuid.New(),
		Period:    req.Period.String(),
		Summary:   pipeline.Summarize(income, losses, req.RecoveryTargetPct),
		TopLosses: pipeline.TopServiceLosses(losses, pipeline.TopLossCount),
		Details:   pipeline.SortLossesByRevenueDesc(losses),
		Warnings:  warnings,
	}

	log.Info().
		Str("run_id", report.RunID.String()).
		Str("period", report.Period).
		Int("offers", len(periodOffers)).
		Int("absences", len(periodAbsences)).
		Int("warnings", len(warnings)).
		Msg("financial report generated")

	return report, nil
}

func (s *ReportService) recordDefaults(warnings []normalize.Warning) {
	for _, w := range warnings {
		observability.NormalizationDefaults.WithLabelValues(w.Table, w.Column).Inc()
	}
}

func containsPeriod(periods []entities.Period, p entities.Period) bool {
	for _, candidate := range periods {
		if candidate == p {
			return true
		}
	}
	return false
}
