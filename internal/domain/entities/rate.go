package entities

import "github.com/shopspring/decimal"

// DefaultThroughput is the fallback patients-per-room-per-day rate used
// when a rate entry carries no usable throughput value.
const DefaultThroughput = 14

// RateEntry is the authoritative price/throughput reference for one service
// in one period. The rate table carries exactly one entry per
// (service, period) pair.
type RateEntry struct {
	Period      Period          `json:"period"`
	ServiceCode string          `json:"service_code"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Throughput  float64         `json:"throughput"`
}
