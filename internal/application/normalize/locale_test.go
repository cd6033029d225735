package normalize_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/clinicops/leakwatch/internal/application/normalize"
	"github.com/clinicops/leakwatch/internal/domain/entities"
)

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestRioplatenseLocale_ParseCurrency(t *testing.T) {
	locale := normalize.NewRioplatenseLocale()

	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "symbol and grouping dots", input: "$1.234.567", want: 1234567},
		{name: "plain integer", input: "4500", want: 4500},
		{name: "symbol only", input: "$4500", want: 4500},
		{name: "surrounding whitespace", input: "  $12.000 ", want: 12000},
		{name: "non-breaking space", input: "$ 12.000", want: 12000},
		{name: "zero", input: "$0", want: 0},
		{name: "empty", input: "", wantErr: true},
		{name: "text", input: "sin tarifa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locale.ParseCurrency(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimalFromInt(tt.want)), "got %s want %d", got, tt.want)
		})
	}
}

func TestRioplatenseLocale_ParseDate_DayFirst(t *testing.T) {
	locale := normalize.NewRioplatenseLocale()

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "slash padded", input: "05/03/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "slash unpadded", input: "5/3/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "dash separator", input: "05-03-2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "two digit year", input: "05/03/24", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "iso fallback", input: "2024-03-05", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		// 13 can only be a day, so day-first layouts must win
		{name: "day thirteen", input: "13/02/2024", want: time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "pendiente", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locale.ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRioplatenseLocale_ParseNumber(t *testing.T) {
	locale := normalize.NewRioplatenseLocale()

	got, err := locale.ParseNumber("3")
	assert.NoError(t, err)
	assert.Equal(t, 3.0, got)

	got, err = locale.ParseNumber("2,5")
	assert.NoError(t, err)
	assert.Equal(t, 2.5, got)

	_, err = locale.ParseNumber("")
	assert.Error(t, err)

	_, err = locale.ParseNumber("n/a")
	assert.Error(t, err)
}

func TestRioplatenseLocale_ParseGroupedCount(t *testing.T) {
	locale := normalize.NewRioplatenseLocale()

	got, err := locale.ParseGroupedCount("12.345")
	assert.NoError(t, err)
	assert.Equal(t, 12345, got)

	got, err = locale.ParseGroupedCount("987")
	assert.NoError(t, err)
	assert.Equal(t, 987, got)

	_, err = locale.ParseGroupedCount("")
	assert.Error(t, err)
}

func TestRioplatenseLocale_ParseMonthLabel(t *testing.T) {
	locale := normalize.NewRioplatenseLocale()

	tests := []struct {
		name    string
		input   string
		want    entities.Period
		wantErr bool
	}{
		{name: "spanish short year", input: "mar 24", want: entities.Period{Year: 2024, Month: time.March}},
		{name: "english dash full year", input: "Sep-2023", want: entities.Period{Year: 2023, Month: time.September}},
		{name: "spanish full year", input: "dic 2024", want: entities.Period{Year: 2024, Month: time.December}},
		{name: "setiembre variant", input: "set 23", want: entities.Period{Year: 2023, Month: time.September}},
		{name: "long month name truncated", input: "agosto 2024", want: entities.Period{Year: 2024, Month: time.August}},
		{name: "mixed case", input: "ENE 24", want: entities.Period{Year: 2024, Month: time.January}},
		{name: "english alias", input: "aug 24", want: entities.Period{Year: 2024, Month: time.August}},
		{name: "missing year", input: "marzo", wantErr: true},
		{name: "unknown month", input: "xyz 24", wantErr: true},
		{name: "bad year", input: "mar veinticuatro", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locale.ParseMonthLabel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
