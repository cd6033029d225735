package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DerivedIncomeRecord is an offer record joined against the rate table,
// carrying the revenue the offered shifts represent.
type DerivedIncomeRecord struct {
	Period      Period          `json:"period"`
	ServiceCode string          `json:"service_code"`
	ShiftCount  int             `json:"shift_count"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DerivedLossRecord is an absence record joined against the rate table,
// carrying the shifts and revenue lost to the absence.
type DerivedLossRecord struct {
	Date                time.Time       `json:"date"`
	Professional        string          `json:"professional"`
	ServiceCode         string          `json:"service_code"`
	RoomsAffected       float64         `json:"rooms_affected"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	EffectiveThroughput float64         `json:"effective_throughput"`
	LostShifts          float64         `json:"lost_shifts"`
	LostRevenue         decimal.Decimal `json:"lost_revenue"`
}
