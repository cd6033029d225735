package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clinicops/leakwatch/internal/domain/entities"
	apperrors "github.com/clinicops/leakwatch/pkg/errors"
)

// Source column names as published by the upstream sheets
const (
	colPeriod       = "PERIODO"
	colService      = "SERVICIO"
	colShiftCount   = "TURNOS_MENSUAL"
	colStartDate    = "FECHA_INICIO"
	colProfessional = "PROFESIONAL"
	colRoomsReal    = "CONSULTORIOS_REALES"
	colDaysDown     = "DIAS_CAIDOS"
	colUnitPrice    = "VALOR_TURNO"
	colThroughput   = "RENDIMIENTO"
	colMonthLabel   = "MES"

	colReceivedOS   = "RECIBIDAS_OS"
	colHandledOS    = "ATENDIDAS_OS"
	colLostOS       = "PERDIDAS_OS"
	colReceivedPart = "RECIBIDAS_PART"
	colHandledPart  = "ATENDIDAS_PART"
	colLostPart     = "PERDIDAS_PART"
)

// Warning records one substituted default during normalization. Warnings
// never change numeric outputs; they exist so data-quality problems masked
// by the defaulting policy stay visible to the caller.
type Warning struct {
	Table string `json:"table"`
	// Row is the 1-based data row index; -1 marks a table-level warning
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Value   string `json:"value,omitempty"`
	Applied string `json:"applied"`
}

// Normalizer turns raw string tables into typed records. Per-cell failures
// substitute documented defaults and continue; only structural failures
// (missing required column, non-tabular input) are returned as errors.
type Normalizer struct {
	locale Locale
}

// NewNormalizer creates a normalizer with the given locale strategy
func NewNormalizer(locale Locale) *Normalizer {
	return &Normalizer{locale: locale}
}

// ServiceCode normalizes a raw service code for joining: trimmed and
// upper-cased. Applied identically to every table, otherwise joins on the
// raw codes silently drop matches.
func ServiceCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Offers normalizes the offered-capacity table
func (n *Normalizer) Offers(t *entities.RawTable) ([]entities.OfferRecord, []Warning, error) {
	if err := checkTabular(t); err != nil {
		return nil, nil, err
	}
	periodIdx, err := requireColumn(t, colPeriod)
	if err != nil {
		return nil, nil, err
	}
	serviceIdx, err := requireColumn(t, colService)
	if err != nil {
		return nil, nil, err
	}
	shiftsIdx, err := requireColumn(t, colShiftCount)
	if err != nil {
		return nil, nil, err
	}

	records := make([]entities.OfferRecord, 0, len(t.Rows))
	var warnings []Warning
	for i, row := range t.Rows {
		rec := entities.OfferRecord{
			ServiceCode: ServiceCode(t.Cell(row, serviceIdx)),
		}

		if date, derr := n.locale.ParseDate(t.Cell(row, periodIdx)); derr == nil {
			rec.Period = entities.PeriodOf(date)
		} else {
			warnings = append(warnings, cellWarning(t, i, colPeriod, t.Cell(row, periodIdx), "row excluded from period filtering"))
		}

		if v, perr := n.locale.ParseNumber(t.Cell(row, shiftsIdx)); perr == nil {
			rec.ShiftCount = int(v)
		} else {
			warnings = append(warnings, cellWarning(t, i, colShiftCount, t.Cell(row, shiftsIdx), "defaulted to 0"))
		}

		records = append(records, rec)
	}
	return records, warnings, nil
}

// Absences normalizes the absence-event table. The room-impact count falls
// back to the days-down column when the primary column is absent from the
// schema, and is synthesized as 0 when neither exists.
func (n *Normalizer) Absences(t *entities.RawTable) ([]entities.AbsenceRecord, []Warning, error) {
	if err := checkTabular(t); err != nil {
		return nil, nil, err
	}
	dateIdx, err := requireColumn(t, colStartDate)
	if err != nil {
		return nil, nil, err
	}
	professionalIdx, err := requireColumn(t, colProfessional)
	if err != nil {
		return nil, nil, err
	}
	serviceIdx, err := requireColumn(t, colService)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	roomsIdx, roomsCol := -1, colRoomsReal
	if idx, ok := t.ColumnIndex(colRoomsReal); ok {
		roomsIdx = idx
	} else if idx, ok := t.ColumnIndex(colDaysDown); ok {
		roomsIdx, roomsCol = idx, colDaysDown
		warnings = append(warnings, tableWarning(t, colRoomsReal, fmt.Sprintf("column absent; using %s", colDaysDown)))
	} else {
		warnings = append(warnings, tableWarning(t, colRoomsReal, "column absent; synthesized as 0"))
	}

	records := make([]entities.AbsenceRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec := entities.AbsenceRecord{
			Professional: t.Cell(row, professionalIdx),
			ServiceCode:  ServiceCode(t.Cell(row, serviceIdx)),
		}

		if date, derr := n.locale.ParseDate(t.Cell(row, dateIdx)); derr == nil {
			rec.Date = date
		} else {
			warnings = append(warnings, cellWarning(t, i, colStartDate, t.Cell(row, dateIdx), "row excluded from period filtering"))
		}

		if roomsIdx >= 0 {
			if v, perr := n.locale.ParseNumber(t.Cell(row, roomsIdx)); perr == nil {
				rec.RoomsAffected = v
			} else {
				warnings = append(warnings, cellWarning(t, i, roomsCol, t.Cell(row, roomsIdx), "defaulted to 0"))
			}
		}

		records = append(records, rec)
	}
	return records, warnings, nil
}

// Rates normalizes the rate-card table. Unparseable prices default to 0 and
// missing or unparseable throughputs default to entities.DefaultThroughput.
func (n *Normalizer) Rates(t *entities.RawTable) ([]entities.RateEntry, []Warning, error) {
	if err := checkTabular(t); err != nil {
		return nil, nil, err
	}
	periodIdx, err := requireColumn(t, colPeriod)
	if err != nil {
		return nil, nil, err
	}
	serviceIdx, err := requireColumn(t, colService)
	if err != nil {
		return nil, nil, err
	}
	priceIdx, err := requireColumn(t, colUnitPrice)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	throughputIdx := -1
	if idx, ok := t.ColumnIndex(colThroughput); ok {
		throughputIdx = idx
	} else {
		warnings = append(warnings, tableWarning(t, colThroughput, fmt.Sprintf("column absent; defaulted to %d", entities.DefaultThroughput)))
	}

	records := make([]entities.RateEntry, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec := entities.RateEntry{
			ServiceCode: ServiceCode(t.Cell(row, serviceIdx)),
			UnitPrice:   decimal.Zero,
			Throughput:  entities.DefaultThroughput,
		}

		if date, derr := n.locale.ParseDate(t.Cell(row, periodIdx)); derr == nil {
			rec.Period = entities.PeriodOf(date)
		} else {
			warnings = append(warnings, cellWarning(t, i, colPeriod, t.Cell(row, periodIdx), "row excluded from period filtering"))
		}

		if price, perr := n.locale.ParseCurrency(t.Cell(row, priceIdx)); perr == nil {
			rec.UnitPrice = price
		} else {
			warnings = append(warnings, cellWarning(t, i, colUnitPrice, t.Cell(row, priceIdx), "defaulted to 0"))
		}

		if throughputIdx >= 0 {
			if v, perr := n.locale.ParseNumber(t.Cell(row, throughputIdx)); perr == nil {
				rec.Throughput = v
			} else {
				warnings = append(warnings, cellWarning(t, i, colThroughput, t.Cell(row, throughputIdx), fmt.Sprintf("defaulted to %d", entities.DefaultThroughput)))
			}
		}

		records = append(records, rec)
	}
	return records, warnings, nil
}

// CallVolumes normalizes the call-center volume table. Each wide source row
// becomes two records, one per payer segment.
func (n *Normalizer) CallVolumes(t *entities.RawTable) ([]entities.CallVolumeRecord, []Warning, error) {
	if err := checkTabular(t); err != nil {
		return nil, nil, err
	}
	labelIdx, err := requireColumn(t, colMonthLabel)
	if err != nil {
		return nil, nil, err
	}

	segments := []struct {
		segment  entities.Segment
		received string
		handled  string
		lost     string
	}{
		{entities.SegmentObraSocial, colReceivedOS, colHandledOS, colLostOS},
		{entities.SegmentParticular, colReceivedPart, colHandledPart, colLostPart},
	}
	type segmentIdx struct {
		segment                 entities.Segment
		received, handled, lost int
	}
	indexes := make([]segmentIdx, 0, len(segments))
	for _, seg := range segments {
		ri, err := requireColumn(t, seg.received)
		if err != nil {
			return nil, nil, err
		}
		hi, err := requireColumn(t, seg.handled)
		if err != nil {
			return nil, nil, err
		}
		li, err := requireColumn(t, seg.lost)
		if err != nil {
			return nil, nil, err
		}
		indexes = append(indexes, segmentIdx{seg.segment, ri, hi, li})
	}

	records := make([]entities.CallVolumeRecord, 0, len(t.Rows)*2)
	var warnings []Warning
	for i, row := range t.Rows {
		var period entities.Period
		if p, perr := n.locale.ParseMonthLabel(t.Cell(row, labelIdx)); perr == nil {
			period = p
		} else {
			warnings = append(warnings, cellWarning(t, i, colMonthLabel, t.Cell(row, labelIdx), "row excluded from period filtering"))
		}

		for _, seg := range indexes {
			rec := entities.CallVolumeRecord{Period: period, Segment: seg.segment}
			rec.Received, warnings = n.count(t, row, i, seg.received, warnings)
			rec.Handled, warnings = n.count(t, row, i, seg.handled, warnings)
			rec.Lost, warnings = n.count(t, row, i, seg.lost, warnings)
			records = append(records, rec)
		}
	}
	return records, warnings, nil
}

func (n *Normalizer) count(t *entities.RawTable, row []string, rowIdx, colIdx int, warnings []Warning) (int, []Warning) {
	raw := t.Cell(row, colIdx)
	v, err := n.locale.ParseGroupedCount(raw)
	if err != nil {
		return 0, append(warnings, cellWarning(t, rowIdx, t.Columns[colIdx], raw, "defaulted to 0"))
	}
	return v, warnings
}

// checkTabular rejects wholesale-broken input: a nil table or one without a
// header is not recoverable by per-cell defaulting.
func checkTabular(t *entities.RawTable) error {
	if t == nil || len(t.Columns) == 0 {
		return apperrors.NewValidationError("source payload is not tabular")
	}
	return nil
}

func requireColumn(t *entities.RawTable, name string) (int, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return 0, apperrors.NewValidationError(fmt.Sprintf("table %s: required column %s is missing", t.Name, name))
	}
	return idx, nil
}

func cellWarning(t *entities.RawTable, row int, column, value, applied string) Warning {
	return Warning{Table: t.Name, Row: row + 1, Column: column, Value: value, Applied: applied}
}

func tableWarning(t *entities.RawTable, column, applied string) Warning {
	return Warning{Table: t.Name, Row: -1, Column: column, Applied: applied}
}
