// Package source implements the SnapshotRepository over the supported
// backends: published CSV sheets and a mirrored PostgreSQL database.
package source

import (
	"context"
	"time"

	"github.com/clinicops/leakwatch/internal/domain/entities"
	"github.com/clinicops/leakwatch/internal/infrastructure/clients/sheets"
	"github.com/clinicops/leakwatch/internal/infrastructure/observability"
	"github.com/clinicops/leakwatch/pkg/config"
)

// Table names as they appear in logs, warnings and cache keys.
const (
	TableOffers      = "offers"
	TableAbsences    = "absences"
	TableRates       = "rates"
	TableCallVolumes = "call_volumes"
)

// SheetsAdapter retrieves raw snapshots from published CSV sheet tabs
type SheetsAdapter struct {
	client sheets.Client
	cfg    config.SheetsConfig
}

// NewSheetsAdapter creates a snapshot repository backed by published sheets
func NewSheetsAdapter(client sheets.Client, cfg config.SheetsConfig) *SheetsAdapter {
	return &SheetsAdapter{client: client, cfg: cfg}
}

// FinancialTables fetches the offer, absence and rate tabs as one snapshot
func (a *SheetsAdapter) FinancialTables(ctx context.Context) (*entities.RawTableSet, error) {
	start := time.Now()
	defer func() {
		observability.SnapshotFetchDuration.WithLabelValues("sheets").Observe(time.Since(start).Seconds())
	}()

	offers, err := a.client.FetchTable(ctx, TableOffers, a.cfg.OfferURL)
	if err != nil {
		return nil, err
	}
	absences, err := a.client.FetchTable(ctx, TableAbsences, a.cfg.AbsenceURL)
	if err != nil {
		return nil, err
	}
	rates, err := a.client.FetchTable(ctx, TableRates, a.cfg.RateURL)
	if err != nil {
		return nil, err
	}

	return &entities.RawTableSet{
		Offers:   *offers,
		Absences: *absences,
		Rates:    *rates,
	}, nil
}

// CallVolumeTable fetches the call-center volume tab
func (a *SheetsAdapter) CallVolumeTable(ctx context.Context) (*entities.RawTable, error) {
	start := time.Now()
	defer func() {
		observability.SnapshotFetchDuration.WithLabelValues("sheets").Observe(time.Since(start).Seconds())
	}()

	return a.client.FetchTable(ctx, TableCallVolumes, a.cfg.CallVolumeURL)
}
