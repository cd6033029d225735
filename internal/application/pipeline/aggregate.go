package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinicops/leakwatch/internal/domain/entities"
)

// TopLossCount is how many services the ranked loss table keeps
const TopLossCount = 10

// FinancialSummary holds the macro KPIs of one financial report
type FinancialSummary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalLostRevenue decimal.Decimal `json:"total_lost_revenue"`
	TotalPotential   decimal.Decimal `json:"total_potential"`
	// LeakPercent is the share of potential revenue lost to absenteeism,
	// defined as 0 when potential is 0
	LeakPercent float64 `json:"leak_percent"`
	// AnnualProjection is a naive 12-month linear extrapolation of the
	// period's lost revenue, not a forecast
	AnnualProjection   decimal.Decimal `json:"annual_projection"`
	OfferedShifts      int             `json:"offered_shifts"`
	LostShifts         float64         `json:"lost_shifts"`
	RecoveryTargetPct  float64         `json:"recovery_target_pct"`
	RecoverableRevenue decimal.Decimal `json:"recoverable_revenue"`
}

// ServiceLoss is the per-service aggregation of derived loss records
type ServiceLoss struct {
	ServiceCode string          `json:"service_code"`
	LostRevenue decimal.Decimal `json:"lost_revenue"`
	LostShifts  float64         `json:"lost_shifts"`
}

// CallKPIs holds the call-center measures for one segment selection
type CallKPIs struct {
	Segment  entities.Segment `json:"segment"`
	Received int              `json:"received"`
	Handled  int              `json:"handled"`
	Lost     int              `json:"lost"`
	// ServiceLevel is handled/received as a percentage, 0 when nothing
	// was received
	ServiceLevel float64 `json:"service_level"`
}

// YearComparison holds one year's totals for a fixed calendar month
type YearComparison struct {
	Year         int     `json:"year"`
	Received     int     `json:"received"`
	Handled      int     `json:"handled"`
	Lost         int     `json:"lost"`
	ServiceLevel float64 `json:"service_level"`
}

// Summarize computes the macro KPI set over one period's derived records.
// recoveryTargetPct (0-100) only scales total lost revenue; it does not
// participate in the join or derivation.
func Summarize(income []entities.DerivedIncomeRecord, losses []entities.DerivedLossRecord, recoveryTargetPct float64) FinancialSummary {
	s := FinancialSummary{
		TotalRevenue:      decimal.Zero,
		TotalLostRevenue:  decimal.Zero,
		RecoveryTargetPct: recoveryTargetPct,
	}

	for _, r := range income {
		s.TotalRevenue = s.TotalRevenue.Add(r.Revenue)
		s.OfferedShifts += r.ShiftCount
	}
	for _, r := range losses {
		s.TotalLostRevenue = s.TotalLostRevenue.Add(r.LostRevenue)
		s.LostShifts += r.LostShifts
	}

	s.TotalPotential = s.TotalRevenue.Add(s.TotalLostRevenue)
	if s.TotalPotential.IsPositive() {
		s.LeakPercent = s.TotalLostRevenue.Div(s.TotalPotential).InexactFloat64() * 100
	}
	s.AnnualProjection = s.TotalLostRevenue.Mul(decimal.NewFromInt(12))
	s.RecoverableRevenue = s.TotalLostRevenue.Mul(decimal.NewFromFloat(recoveryTargetPct / 100))

	return s
}

// TopServiceLosses groups losses by service, sums the monetary and shift
// measures, sorts ascending by lost revenue and keeps the last n, so the
// single largest-loss service comes last. The ascending order matches the
// horizontal bar chart the dashboard renders.
func TopServiceLosses(losses []entities.DerivedLossRecord, n int) []ServiceLoss {
	byService := make(map[string]*ServiceLoss)
	for _, r := range losses {
		agg, ok := byService[r.ServiceCode]
		if !ok {
			agg = &ServiceLoss{ServiceCode: r.ServiceCode, LostRevenue: decimal.Zero}
			byService[r.ServiceCode] = agg
		}
		agg.LostRevenue = agg.LostRevenue.Add(r.LostRevenue)
		agg.LostShifts += r.LostShifts
	}

	out := make([]ServiceLoss, 0, len(byService))
	for _, agg := range byService {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].LostRevenue.Cmp(out[j].LostRevenue); c != 0 {
			return c < 0
		}
		return out[i].ServiceCode < out[j].ServiceCode
	})

	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// SortLossesByRevenueDesc returns a copy of the loss records ordered by
// lost revenue, largest first, for the detail table.
func SortLossesByRevenueDesc(losses []entities.DerivedLossRecord) []entities.DerivedLossRecord {
	out := make([]entities.DerivedLossRecord, len(losses))
	copy(out, losses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LostRevenue.Cmp(out[j].LostRevenue) > 0
	})
	return out
}

// SummarizeCalls totals the already period-filtered call volume records
// for one segment selection. SegmentUnified sums every segment.
func SummarizeCalls(records []entities.CallVolumeRecord, segment entities.Segment) CallKPIs {
	kpis := CallKPIs{Segment: segment}
	for _, r := range records {
		if segment != entities.SegmentUnified && r.Segment != segment {
			continue
		}
		kpis.Received += r.Received
		kpis.Handled += r.Handled
		kpis.Lost += r.Lost
	}
	kpis.ServiceLevel = serviceLevel(kpis.Handled, kpis.Received)
	return kpis
}

// SegmentBreakdown returns per-segment KPIs for the filtered records, in a
// fixed segment order.
func SegmentBreakdown(records []entities.CallVolumeRecord) []CallKPIs {
	segments := []entities.Segment{entities.SegmentObraSocial, entities.SegmentParticular}
	out := make([]CallKPIs, 0, len(segments))
	for _, seg := range segments {
		out = append(out, SummarizeCalls(records, seg))
	}
	return out
}

// YearOverYear groups every record whose period falls in the given calendar
// month by year and totals the selected segment, in ascending year order.
func YearOverYear(records []entities.CallVolumeRecord, month time.Month, segment entities.Segment) []YearComparison {
	byYear := make(map[int]*YearComparison)
	for _, r := range records {
		if r.Period.IsZero() || r.Period.Month != month {
			continue
		}
		if segment != entities.SegmentUnified && r.Segment != segment {
			continue
		}
		agg, ok := byYear[r.Period.Year]
		if !ok {
			agg = &YearComparison{Year: r.Period.Year}
			byYear[r.Period.Year] = agg
		}
		agg.Received += r.Received
		agg.Handled += r.Handled
		agg.Lost += r.Lost
	}

	out := make([]YearComparison, 0, len(byYear))
	for _, agg := range byYear {
		agg.ServiceLevel = serviceLevel(agg.Handled, agg.Received)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func serviceLevel(handled, received int) float64 {
	if received <= 0 {
		return 0
	}
	return float64(handled) / float64(received) * 100
}
