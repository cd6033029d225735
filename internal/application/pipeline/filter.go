// Package pipeline holds the pure computation stages of a report: period
// filtering, the join/derivation engine, and aggregation. Every function is
// deterministic in its inputs; retrieval and normalization happen upstream.
package pipeline

import (
	"sort"

	"github.com/clinicops/leakwatch/internal/domain/entities"
)

// FilterOffers returns the offers whose period equals the selected period
func FilterOffers(records []entities.OfferRecord, period entities.Period) []entities.OfferRecord {
	out := make([]entities.OfferRecord, 0, len(records))
	for _, r := range records {
		if r.Period == period {
			out = append(out, r)
		}
	}
	return out
}

// FilterAbsences returns the absences whose start date falls in the
// selected period. Records with an invalid (zero) date never match.
func FilterAbsences(records []entities.AbsenceRecord, period entities.Period) []entities.AbsenceRecord {
	out := make([]entities.AbsenceRecord, 0, len(records))
	for _, r := range records {
		if !r.Date.IsZero() && period.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// FilterRates returns the rate entries for exactly the selected period.
// The rate table carries one snapshot row per service per period, so this
// is equality, not month containment.
func FilterRates(records []entities.RateEntry, period entities.Period) []entities.RateEntry {
	out := make([]entities.RateEntry, 0, len(records))
	for _, r := range records {
		if r.Period == period {
			out = append(out, r)
		}
	}
	return out
}

// FilterCallVolumes returns the call volume records for the selected period
func FilterCallVolumes(records []entities.CallVolumeRecord, period entities.Period) []entities.CallVolumeRecord {
	out := make([]entities.CallVolumeRecord, 0, len(records))
	for _, r := range records {
		if r.Period == period {
			out = append(out, r)
		}
	}
	return out
}

// AvailablePeriods returns the distinct non-zero periods present in the
// rate table, in ascending calendar order. An empty result means there is
// nothing to report on.
func AvailablePeriods(rates []entities.RateEntry) []entities.Period {
	seen := make(map[entities.Period]struct{})
	for _, r := range rates {
		if !r.Period.IsZero() {
			seen[r.Period] = struct{}{}
		}
	}
	periods := make([]entities.Period, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}

// CallVolumePeriods returns the distinct non-zero periods present in the
// call volume records, ascending.
func CallVolumePeriods(records []entities.CallVolumeRecord) []entities.Period {
	seen := make(map[entities.Period]struct{})
	for _, r := range records {
		if !r.Period.IsZero() {
			seen[r.Period] = struct{}{}
		}
	}
	periods := make([]entities.Period, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}
