package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/leakwatch/internal/application/normalize"
	"github.com/clinicops/leakwatch/internal/application/services"
	"github.com/clinicops/leakwatch/internal/domain/entities"
	apperrors "github.com/clinicops/leakwatch/pkg/errors"
)

type stubSnapshotRepo struct {
	financial   *entities.RawTableSet
	callVolumes *entities.RawTable
	err         error
}

func (s *stubSnapshotRepo) FinancialTables(ctx context.Context) (*entities.RawTableSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.financial, nil
}

func (s *stubSnapshotRepo) CallVolumeTable(ctx context.Context) (*entities.RawTable, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.callVolumes, nil
}

func financialFixture() *entities.RawTableSet {
	return &entities.RawTableSet{
		Offers: entities.RawTable{
			Name:    "offers",
			Columns: []string{"PERIODO", "SERVICIO", "TURNOS_MENSUAL"},
			Rows: [][]string{
				{"01/03/2024", "CARDIOLOGIA", "100"},
				{"01/03/2024", "PEDIATRIA", "50"},
				{"01/04/2024", "CARDIOLOGIA", "90"},
			},
		},
		Absences: entities.RawTable{
			Name:    "absences",
			Columns: []string{"FECHA_INICIO", "PROFESIONAL", "SERVICIO", "CONSULTORIOS_REALES"},
			Rows: [][]string{
				{"05/03/2024", "Dra. Gomez", "CARDIOLOGIA", "4"},
				{"10/04/2024", "Dr. Paz", "PEDIATRIA", "2"},
			},
		},
		Rates: entities.RawTable{
			Name:    "rates",
			Columns: []string{"PERIODO", "SERVICIO", "VALOR_TURNO", "RENDIMIENTO"},
			Rows: [][]string{
				{"01/03/2024", "CARDIOLOGIA", "$500", "14"},
				{"01/03/2024", "PEDIATRIA", "$300", "14"},
				{"01/04/2024", "CARDIOLOGIA", "$550", "14"},
			},
		},
	}
}

func newReportService(repo *stubSnapshotRepo) *services.ReportService {
	return services.NewReportService(repo, normalize.NewNormalizer(normalize.NewRioplatenseLocale()))
}

func TestReportService_AvailablePeriods(t *testing.T) {
	svc := newReportService(&stubSnapshotRepo{financial: financialFixture()})

	periods, err := svc.AvailablePeriods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.Period{
		{Year: 2024, Month: time.March},
		{Year: 2024, Month: time.April},
	}, periods)
}

func TestReportService_AvailablePeriods_EmptyState(t *testing.T) {
	set := financialFixture()
	set.Rates.Rows = nil
	svc := newReportService(&stubSnapshotRepo{financial: set})

	_, err := svc.AvailablePeriods(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeEmptyState, apperrors.TypeOf(err))
}

func TestReportService_Generate(t *testing.T) {
	svc := newReportService(&stubSnapshotRepo{financial: financialFixture()})

	report, err := svc.Generate(context.Background(), services.FinancialReportRequest{
		Period:            entities.Period{Year: 2024, Month: time.March},
		RecoveryTargetPct: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03", report.Period)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", report.RunID.String())

	// Revenue: 100*500 + 50*300 = 65000; lost: 4*14*500 = 28000
	assert.Equal(t, "65000", report.Summary.TotalRevenue.String())
	assert.Equal(t, "28000", report.Summary.TotalLostRevenue.String())
	assert.Equal(t, "93000", report.Summary.TotalPotential.String())
	assert.Equal(t, "336000", report.Summary.AnnualProjection.String())
	assert.Equal(t, "14000", report.Summary.RecoverableRevenue.String())
	assert.Equal(t, 150, report.Summary.OfferedShifts)
	assert.Equal(t, 56.0, report.Summary.LostShifts)

	require.Len(t, report.TopLosses, 1)
	assert.Equal(t, "CARDIOLOGIA", report.TopLosses[0].ServiceCode)

	require.Len(t, report.Details, 1)
	assert.Equal(t, "Dra. Gomez", report.Details[0].Professional)
	assert.Empty(t, report.Warnings)
}

func TestReportService_Generate_Deterministic(t *testing.T) {
	svc := newReportService(&stubSnapshotRepo{financial: financialFixture()})
	req := services.FinancialReportRequest{Period: entities.Period{Year: 2024, Month: time.March}}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	// Everything except the run id is identical run to run
	assert.NotEqual(t, first.RunID, second.RunID)
	first.RunID = second.RunID
	assert.Equal(t, first, second)
}

func TestReportService_Generate_ThroughputOverride(t *testing.T) {
	svc := newReportService(&stubSnapshotRepo{financial: financialFixture()})

	override := 10.0
	report, err := svc.Generate(context.Background(), services.FinancialReportRequest{
		Period:             entities.Period{Year: 2024, Month: time.March},
		ThroughputOverride: &override,
	})
	require.NoError(t, err)

	// 4 rooms * 10 shifts * $500
	assert.Equal(t, 40.0, report.Summary.LostShifts)
	assert.Equal(t, "20000", report.Summary.TotalLostRevenue.String())
}

func TestReportService_Generate_UnknownPeriod(t *testing.T) {
	svc := newReportService(&stubSnapshotRepo{financial: financialFixture()})

	_, err := svc.Generate(context.Background(), services.FinancialReportRequest{
		Period: entities.Period{Year: 2020, Month: time.January},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestReportService_Generate_SourceFailure(t *testing.T) {
	svc := newReportService(&stubSnapshotRepo{err: apperrors.NewExternalError("source down", nil)})

	_, err := svc.Generate(context.Background(), services.FinancialReportRequest{
		Period: entities.Period{Year: 2024, Month: time.March},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
}

func TestReportService_Generate_CollectsWarnings(t *testing.T) {
	set := financialFixture()
	set.Rates.Rows = append(set.Rates.Rows, []string{"01/03/2024", "TRAUMATOLOGIA", "consultar", "14"})
	svc := newReportService(&stubSnapshotRepo{financial: set})

	report, err := svc.Generate(context.Background(), services.FinancialReportRequest{
		Period: entities.Period{Year: 2024, Month: time.March},
	})
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "rates", report.Warnings[0].Table)
	assert.Equal(t, "VALOR_TURNO", report.Warnings[0].Column)
}
