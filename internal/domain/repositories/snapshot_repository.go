package repositories

import (
	"context"

	"github.com/clinicops/leakwatch/internal/domain/entities"
)

// SnapshotRepository retrieves full snapshots of the raw source tables.
// Every report generation re-reads a complete snapshot; there is no
// incremental update path.
type SnapshotRepository interface {
	// FinancialTables returns the offer, absence and rate tables
	FinancialTables(ctx context.Context) (*entities.RawTableSet, error)

	// CallVolumeTable returns the call-center volume table
	CallVolumeTable(ctx context.Context) (*entities.RawTable, error)
}
