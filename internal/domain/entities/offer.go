package entities

// OfferRecord represents contracted appointment-slot volume for one service
// in one period. Immutable once normalized.
type OfferRecord struct {
	Period      Period `json:"period"`
	ServiceCode string `json:"service_code"`
	ShiftCount  int    `json:"shift_count"`
}
