package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicops/leakwatch/internal/application/normalize"
	"github.com/clinicops/leakwatch/internal/application/pipeline"
	"github.com/clinicops/leakwatch/internal/domain/entities"
	"github.com/clinicops/leakwatch/internal/domain/repositories"
	"github.com/clinicops/leakwatch/internal/infrastructure/observability"
	apperrors "github.com/clinicops/leakwatch/pkg/errors"
)

// CallSummaryReport is the per-period call-center report for one segment
// selection, with the per-segment split alongside the selected totals.
type CallSummaryReport struct {
	Period   string              `json:"period"`
	Totals   pipeline.CallKPIs   `json:"totals"`
	Segments []pipeline.CallKPIs `json:"segments"`
	Warnings []normalize.Warning `json:"warnings"`
}

// YearlyCallReport compares one calendar month across every year present in
// the dataset.
type YearlyCallReport struct {
	Month    time.Month                `json:"month"`
	Segment  entities.Segment          `json:"segment"`
	Years    []pipeline.YearComparison `json:"years"`
	Warnings []normalize.Warning       `json:"warnings"`
}

// CallCenterService generates call-volume reports, independent of the
// financial pipeline.
type CallCenterService struct {
	snapshots  repositories.SnapshotRepository
	normalizer *normalize.Normalizer
}

// NewCallCenterService creates a new call-center report service
func NewCallCenterService(snapshots repositories.SnapshotRepository, normalizer *normalize.Normalizer) *CallCenterService {
	return &CallCenterService{snapshots: snapshots, normalizer: normalizer}
}

// AvailablePeriods returns the periods present in the call-volume table
func (s *CallCenterService) AvailablePeriods(ctx context.Context) ([]entities.Period, error) {
	records, _, err := s.load(ctx)
	if err != nil {
		observability.ReportErrors.WithLabelValues("callcenter", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}

	periods := pipeline.CallVolumePeriods(records)
	if len(periods) == 0 {
		err := apperrors.NewEmptyStateError("call volume table has no usable periods")
		observability.ReportErrors.WithLabelValues("callcenter", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}
	return periods, nil
}

// Summary generates the per-period call report for one segment selection
func (s *CallCenterService) Summary(ctx context.Context, period entities.Period, segment entities.Segment) (*CallSummaryReport, error) {
	records, warnings, err := s.load(ctx)
	if err != nil {
		observability.ReportErrors.WithLabelValues("callcenter", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}

	filtered := pipeline.FilterCallVolumes(records, period)
	if len(filtered) == 0 {
		err := apperrors.NewNotFoundError(fmt.Sprintf("no call volume data for period %s", period))
		observability.ReportErrors.WithLabelValues("callcenter", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}

	report := &CallSummaryReport{
		Period:   period.String(),
		Totals:   pipeline.SummarizeCalls(filtered, segment),
		Segments: pipeline.SegmentBreakdown(filtered),
		Warnings: warnings,
	}
	observability.ReportsGenerated.WithLabelValues("callcenter").Inc()

	log.Info().
		Str("period", report.Period).
		Str("segment", string(segment)).
		Int("warnings", len(warnings)).
		Msg("call center summary generated")

	return report, nil
}

// Yearly compares one calendar month's volumes across every year on record
func (s *CallCenterService) Yearly(ctx context.Context, month time.Month, segment entities.Segment) (*YearlyCallReport, error) {
	records, warnings, err := s.load(ctx)
	if err != nil {
		observability.ReportErrors.WithLabelValues("callcenter", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}

	years := pipeline.YearOverYear(records, month, segment)
	if len(years) == 0 {
		err := apperrors.NewNotFoundError(fmt.Sprintf("no call volume data for month %d", int(month)))
		observability.ReportErrors.WithLabelValues("callcenter", string(apperrors.TypeOf(err))).Inc()
		return nil, err
	}

	report := &YearlyCallReport{
		Month:    month,
		Segment:  segment,
		Years:    years,
		Warnings: warnings,
	}
	observability.ReportsGenerated.WithLabelValues("callcenter").Inc()
	return report, nil
}

func (s *CallCenterService) load(ctx context.Context) ([]entities.CallVolumeRecord, []normalize.Warning, error) {
	table, err := s.snapshots.CallVolumeTable(ctx)
	if err != nil {
		return nil, nil, err
	}
	records, warnings, err := s.normalizer.CallVolumes(table)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		observability.NormalizationDefaults.WithLabelValues(w.Table, w.Column).Inc()
	}
	return records, warnings, nil
}
