package pipeline_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/leakwatch/internal/application/pipeline"
	"github.com/clinicops/leakwatch/internal/domain/entities"
)

func loss(service string, lostRevenue int64, lostShifts float64) entities.DerivedLossRecord {
	return entities.DerivedLossRecord{
		ServiceCode: service,
		LostShifts:  lostShifts,
		LostRevenue: decimal.NewFromInt(lostRevenue),
	}
}

func TestSummarize(t *testing.T) {
	income := []entities.DerivedIncomeRecord{
		{ShiftCount: 100, Revenue: decimal.NewFromInt(50000)},
		{ShiftCount: 50, Revenue: decimal.NewFromInt(25000)},
	}
	losses := []entities.DerivedLossRecord{
		loss("A", 20000, 40),
		loss("B", 5000, 10),
	}

	s := pipeline.Summarize(income, losses, 50)

	assert.Equal(t, "75000", s.TotalRevenue.String())
	assert.Equal(t, "25000", s.TotalLostRevenue.String())
	assert.Equal(t, "100000", s.TotalPotential.String())
	assert.Equal(t, 25.0, s.LeakPercent)
	assert.Equal(t, "300000", s.AnnualProjection.String())
	assert.Equal(t, 150, s.OfferedShifts)
	assert.Equal(t, 50.0, s.LostShifts)
	assert.Equal(t, "12500", s.RecoverableRevenue.String())
}

func TestSummarize_ZeroPotential(t *testing.T) {
	s := pipeline.Summarize(nil, nil, 0)

	assert.Equal(t, 0.0, s.LeakPercent)
	assert.True(t, s.TotalPotential.IsZero())
	assert.True(t, s.AnnualProjection.IsZero())
	assert.True(t, s.RecoverableRevenue.IsZero())
}

func TestTopServiceLosses_AscendingLargestLast(t *testing.T) {
	losses := []entities.DerivedLossRecord{
		loss("MEDIO", 500, 1),
		loss("GRANDE", 900, 2),
		loss("CHICO", 100, 3),
		loss("GRANDE", 100, 1), // same service aggregates
	}

	got := pipeline.TopServiceLosses(losses, 10)
	require.Len(t, got, 3)

	assert.Equal(t, "CHICO", got[0].ServiceCode)
	assert.Equal(t, "MEDIO", got[1].ServiceCode)
	assert.Equal(t, "GRANDE", got[2].ServiceCode)
	assert.Equal(t, "1000", got[2].LostRevenue.String())
	assert.Equal(t, 3.0, got[2].LostShifts)
}

func TestTopServiceLosses_KeepsLargestN(t *testing.T) {
	var losses []entities.DerivedLossRecord
	for i := 1; i <= 15; i++ {
		losses = append(losses, loss(fmt.Sprintf("S%02d", i), int64(i*100), 1))
	}

	got := pipeline.TopServiceLosses(losses, pipeline.TopLossCount)
	require.Len(t, got, pipeline.TopLossCount)

	// The five smallest were cut; the largest is last
	assert.Equal(t, "S06", got[0].ServiceCode)
	assert.Equal(t, "S15", got[len(got)-1].ServiceCode)
}

func TestSortLossesByRevenueDesc(t *testing.T) {
	losses := []entities.DerivedLossRecord{
		loss("A", 100, 1),
		loss("B", 900, 1),
		loss("C", 500, 1),
	}

	got := pipeline.SortLossesByRevenueDesc(losses)
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].ServiceCode)
	assert.Equal(t, "C", got[1].ServiceCode)
	assert.Equal(t, "A", got[2].ServiceCode)

	// Input order untouched
	assert.Equal(t, "A", losses[0].ServiceCode)
}

func callRecord(p entities.Period, seg entities.Segment, received, handled, lost int) entities.CallVolumeRecord {
	return entities.CallVolumeRecord{Period: p, Segment: seg, Received: received, Handled: handled, Lost: lost}
}

func TestSummarizeCalls(t *testing.T) {
	records := []entities.CallVolumeRecord{
		callRecord(march2024, entities.SegmentObraSocial, 1000, 800, 200),
		callRecord(march2024, entities.SegmentParticular, 500, 500, 0),
	}

	unified := pipeline.SummarizeCalls(records, entities.SegmentUnified)
	assert.Equal(t, 1500, unified.Received)
	assert.Equal(t, 1300, unified.Handled)
	assert.Equal(t, 200, unified.Lost)
	assert.InDelta(t, 86.666, unified.ServiceLevel, 0.01)

	os := pipeline.SummarizeCalls(records, entities.SegmentObraSocial)
	assert.Equal(t, 1000, os.Received)
	assert.Equal(t, 80.0, os.ServiceLevel)
}

func TestSummarizeCalls_ZeroReceived(t *testing.T) {
	kpis := pipeline.SummarizeCalls(nil, entities.SegmentUnified)
	assert.Equal(t, 0.0, kpis.ServiceLevel)
}

func TestSegmentBreakdown_FixedOrder(t *testing.T) {
	records := []entities.CallVolumeRecord{
		callRecord(march2024, entities.SegmentParticular, 500, 400, 100),
		callRecord(march2024, entities.SegmentObraSocial, 1000, 900, 100),
	}

	got := pipeline.SegmentBreakdown(records)
	require.Len(t, got, 2)
	assert.Equal(t, entities.SegmentObraSocial, got[0].Segment)
	assert.Equal(t, 1000, got[0].Received)
	assert.Equal(t, entities.SegmentParticular, got[1].Segment)
	assert.Equal(t, 500, got[1].Received)
}

func TestYearOverYear_AscendingYears(t *testing.T) {
	records := []entities.CallVolumeRecord{
		callRecord(entities.Period{Year: 2024, Month: time.March}, entities.SegmentObraSocial, 1000, 900, 100),
		callRecord(entities.Period{Year: 2022, Month: time.March}, entities.SegmentObraSocial, 600, 500, 100),
		callRecord(entities.Period{Year: 2023, Month: time.March}, entities.SegmentObraSocial, 800, 700, 100),
		callRecord(entities.Period{Year: 2023, Month: time.April}, entities.SegmentObraSocial, 999, 999, 0),
		{Segment: entities.SegmentObraSocial, Received: 1}, // zero period skipped
	}

	got := pipeline.YearOverYear(records, time.March, entities.SegmentObraSocial)
	require.Len(t, got, 3)
	assert.Equal(t, 2022, got[0].Year)
	assert.Equal(t, 2023, got[1].Year)
	assert.Equal(t, 2024, got[2].Year)
	assert.Equal(t, 800, got[1].Received)
	assert.InDelta(t, 87.5, got[1].ServiceLevel, 0.001)
}

func TestYearOverYear_SegmentFilter(t *testing.T) {
	records := []entities.CallVolumeRecord{
		callRecord(entities.Period{Year: 2024, Month: time.March}, entities.SegmentObraSocial, 1000, 900, 100),
		callRecord(entities.Period{Year: 2024, Month: time.March}, entities.SegmentParticular, 500, 400, 100),
	}

	unified := pipeline.YearOverYear(records, time.March, entities.SegmentUnified)
	require.Len(t, unified, 1)
	assert.Equal(t, 1500, unified[0].Received)

	particular := pipeline.YearOverYear(records, time.March, entities.SegmentParticular)
	require.Len(t, particular, 1)
	assert.Equal(t, 500, particular[0].Received)
}
