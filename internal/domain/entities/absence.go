package entities

import "time"

// AbsenceRecord represents one staffing gap event: a professional absent
// from a service, taking some number of rooms out of operation.
type AbsenceRecord struct {
	// Date is the absence start date. A zero Date marks a row whose date
	// could not be parsed; such rows survive normalization but never match
	// a period filter.
	Date          time.Time `json:"date"`
	Professional  string    `json:"professional"`
	ServiceCode   string    `json:"service_code"`
	RoomsAffected float64   `json:"rooms_affected"`
}
