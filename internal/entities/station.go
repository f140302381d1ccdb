// Package entities contains the core domain objects for the FloodSafe application
package entities

import "strings"

// Status classifies the water situation reported for a station.
type Status string

const (
	StatusLow      Status = "LOW"
	StatusNormal   Status = "NORMAL"
	StatusHigh     Status = "HIGH"
	StatusOverflow Status = "OVERFLOW"
	StatusUnknown  Status = "UNKNOWN"
)

// statusLexicon maps Thai label fragments to a Status. The source page has no
// documented exhaustive label set, so matching is substring containment over
// an extensible list; anything unmatched stays UNKNOWN.
var statusLexicon = []struct {
	fragment string
	status   Status
}{
	{"ล้นตลิ่ง", StatusOverflow},
	{"น้อย", StatusLow},
	{"ปกติ", StatusNormal},
	{"มาก", StatusHigh},
}

// StatusFromLabel maps a raw status chip label to a Status.
func StatusFromLabel(label string) Status {
	for _, e := range statusLexicon {
		if strings.Contains(label, e.fragment) {
			return e.status
		}
	}
	return StatusUnknown
}

// ThaiLabel returns the display label used in replies to users.
func (s Status) ThaiLabel() string {
	switch s {
	case StatusLow:
		return "น้อย"
	case StatusNormal:
		return "ปกติ"
	case StatusHigh:
		return "มาก"
	case StatusOverflow:
		return "ล้นตลิ่ง"
	default:
		return "ไม่ทราบ"
	}
}

// Trend is the short-term direction of the water level at a station.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendStable  Trend = "STABLE"
	TrendUnknown Trend = "UNKNOWN"
)

var trendLexicon = []struct {
	fragment string
	trend    Trend
}{
	{"เพิ่มขึ้น", TrendUp},
	{"ลดลง", TrendDown},
	{"ทรงตัว", TrendStable},
}

// TrendFromTitle maps the trend button's tooltip text to a Trend. Empty or
// unrecognized text maps to UNKNOWN.
func TrendFromTitle(title string) Trend {
	for _, e := range trendLexicon {
		if strings.Contains(title, e.fragment) {
			return e.trend
		}
	}
	return TrendUnknown
}

// ThaiLabel returns the display label used in replies to users.
func (t Trend) ThaiLabel() string {
	switch t {
	case TrendUp:
		return "เพิ่มขึ้น"
	case TrendDown:
		return "ลดลง"
	case TrendStable:
		return "ทรงตัว"
	default:
		return "ไม่ทราบ"
	}
}

// StationRecord is one water-monitoring station as extracted from a single
// crawl. Records are immutable after construction: the crawler builds them,
// everything downstream only reads them.
type StationRecord struct {
	StationName string `json:"station_name"` // never empty in an emitted record
	River       string `json:"river"`
	Location    string `json:"location"` // raw "ต.X อ.Y จ.Z" text from the page
	WaterLevel  string `json:"water_level"`
	BankLevel   string `json:"bank_level,omitempty"`
	Status      Status `json:"status"`
	Trend       Trend  `json:"trend"`
	UpdateTime  string `json:"update_time"` // source-formatted, not reparsed

	// Tambon is derived from Location at extraction time and cached here.
	// It is a lookup key, not part of the serialized record shape.
	Tambon string `json:"-"`
}
