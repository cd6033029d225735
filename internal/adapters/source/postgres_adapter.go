package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/clinicops/leakwatch/internal/domain/entities"
	"github.com/clinicops/leakwatch/internal/infrastructure/clients/postgres"
	"github.com/clinicops/leakwatch/internal/infrastructure/observability"
	apperrors "github.com/clinicops/leakwatch/pkg/errors"
)

// tableSpec maps one mirrored database table to its source headers. The
// mirror stores every cell as text; typing stays in the normalizer so both
// backends go through the same code path.
type tableSpec struct {
	dbTable string
	columns []string
}

var (
	offersSpec = tableSpec{
		dbTable: "raw_offers",
		columns: []string{"PERIODO", "SERVICIO", "TURNOS_MENSUAL"},
	}
	absencesSpec = tableSpec{
		dbTable: "raw_absences",
		columns: []string{"FECHA_INICIO", "PROFESIONAL", "SERVICIO", "CONSULTORIOS_REALES", "DIAS_CAIDOS"},
	}
	ratesSpec = tableSpec{
		dbTable: "raw_rates",
		columns: []string{"PERIODO", "SERVICIO", "VALOR_TURNO", "RENDIMIENTO"},
	}
	callVolumesSpec = tableSpec{
		dbTable: "raw_call_volumes",
		columns: []string{"MES", "RECIBIDAS_OS", "ATENDIDAS_OS", "PERDIDAS_OS", "RECIBIDAS_PART", "ATENDIDAS_PART", "PERDIDAS_PART"},
	}
)

// PostgresAdapter retrieves raw snapshots from mirrored database tables
type PostgresAdapter struct {
	client  *postgres.Client
	dialect goqu.DialectWrapper
}

// NewPostgresAdapter creates a snapshot repository backed by PostgreSQL
func NewPostgresAdapter(client *postgres.Client) *PostgresAdapter {
	return &PostgresAdapter{
		client:  client,
		dialect: goqu.Dialect("postgres"),
	}
}

// FinancialTables reads the offer, absence and rate mirrors as one snapshot
func (a *PostgresAdapter) FinancialTables(ctx context.Context) (*entities.RawTableSet, error) {
	start := time.Now()
	defer func() {
		observability.SnapshotFetchDuration.WithLabelValues("postgres").Observe(time.Since(start).Seconds())
	}()

	offers, err := a.fetchTable(ctx, TableOffers, offersSpec)
	if err != nil {
		return nil, err
	}
	absences, err := a.fetchTable(ctx, TableAbsences, absencesSpec)
	if err != nil {
		return nil, err
	}
	rates, err := a.fetchTable(ctx, TableRates, ratesSpec)
	if err != nil {
		return nil, err
	}

	return &entities.RawTableSet{
		Offers:   *offers,
		Absences: *absences,
		Rates:    *rates,
	}, nil
}

// CallVolumeTable reads the call-center volume mirror
func (a *PostgresAdapter) CallVolumeTable(ctx context.Context) (*entities.RawTable, error) {
	start := time.Now()
	defer func() {
		observability.SnapshotFetchDuration.WithLabelValues("postgres").Observe(time.Since(start).Seconds())
	}()

	return a.fetchTable(ctx, TableCallVolumes, callVolumesSpec)
}

func (a *PostgresAdapter) fetchTable(ctx context.Context, name string, spec tableSpec) (*entities.RawTable, error) {
	cols := make([]any, 0, len(spec.columns))
	for _, c := range spec.columns {
		cols = append(cols, goqu.C(strings.ToLower(c)))
	}

	query, args, err := a.dialect.From(spec.dbTable).Select(cols...).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to build query for table %s", name), err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewExternalError(fmt.Sprintf("failed to read table %s", name), err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(spec.columns))
		dest := make([]any, len(spec.columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, apperrors.NewExternalError(fmt.Sprintf("failed to scan row from table %s", name), err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = v.String
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewExternalError(fmt.Sprintf("failed to iterate table %s", name), err)
	}

	return &entities.RawTable{
		Name:    name,
		Columns: spec.columns,
		Rows:    result,
	}, nil
}
