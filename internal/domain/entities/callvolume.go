package entities

// Segment identifies a payer segment in the call-center dataset
type Segment string

const (
	// SegmentUnified aggregates all payer segments
	SegmentUnified Segment = "unified"

	// SegmentObraSocial covers social-security payer calls
	SegmentObraSocial Segment = "obra_social"

	// SegmentParticular covers private-pay calls
	SegmentParticular Segment = "particular"
)

// ValidSegment reports whether s names a known segment filter
func ValidSegment(s Segment) bool {
	switch s {
	case SegmentUnified, SegmentObraSocial, SegmentParticular:
		return true
	}
	return false
}

// CallVolumeRecord holds the call counts for one payer segment in one
// period. The wide source rows are normalized into one record per segment.
type CallVolumeRecord struct {
	Period   Period  `json:"period"`
	Segment  Segment `json:"segment"`
	Received int     `json:"received"`
	Handled  int     `json:"handled"`
	Lost     int     `json:"lost"`
}
