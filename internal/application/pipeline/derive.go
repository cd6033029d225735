package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/clinicops/leakwatch/internal/domain/entities"
)

// rateIndex is a lookup of rate entries by normalized service code. Built
// from an already period-filtered rate table, so the key is the code alone.
type rateIndex map[string]entities.RateEntry

func buildRateIndex(rates []entities.RateEntry) rateIndex {
	idx := make(rateIndex, len(rates))
	for _, r := range rates {
		idx[r.ServiceCode] = r
	}
	return idx
}

// Derive left-joins the filtered offer and absence records against the
// filtered rate table and computes the derived monetary figures.
//
// Offers and absences are the driving side: a record with no rate match is
// kept with unit price 0 rather than dropped, since surfacing un-priced or
// mis-tagged services is the point of the report. When throughputOverride
// is non-nil every loss record uses that single value; otherwise each
// record uses its own service's throughput.
func Derive(
	offers []entities.OfferRecord,
	absences []entities.AbsenceRecord,
	rates []entities.RateEntry,
	throughputOverride *float64,
) ([]entities.DerivedIncomeRecord, []entities.DerivedLossRecord) {
	idx := buildRateIndex(rates)

	income := make([]entities.DerivedIncomeRecord, 0, len(offers))
	for _, o := range offers {
		price := decimal.Zero
		if rate, ok := idx[o.ServiceCode]; ok {
			price = rate.UnitPrice
		}
		income = append(income, entities.DerivedIncomeRecord{
			Period:      o.Period,
			ServiceCode: o.ServiceCode,
			ShiftCount:  o.ShiftCount,
			UnitPrice:   price,
			Revenue:     price.Mul(decimal.NewFromInt(int64(o.ShiftCount))),
		})
	}

	losses := make([]entities.DerivedLossRecord, 0, len(absences))
	for _, a := range absences {
		price := decimal.Zero
		throughput := float64(entities.DefaultThroughput)
		if rate, ok := idx[a.ServiceCode]; ok {
			price = rate.UnitPrice
			throughput = rate.Throughput
		}
		if throughputOverride != nil {
			throughput = *throughputOverride
		}

		lostShifts := a.RoomsAffected * throughput
		losses = append(losses, entities.DerivedLossRecord{
			Date:                a.Date,
			Professional:        a.Professional,
			ServiceCode:         a.ServiceCode,
			RoomsAffected:       a.RoomsAffected,
			UnitPrice:           price,
			EffectiveThroughput: throughput,
			LostShifts:          lostShifts,
			LostRevenue:         price.Mul(decimal.NewFromFloat(lostShifts)),
		})
	}

	return income, losses
}
