package integration

import (
	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
	"github.com/pheemnattavich-project/FloodSafe/internal/thai"
)

// Profile describes where each record field lives in a row's cell list.
// Column count and order are a property of the source page and its variants,
// so the layout is data here rather than code: a page revision means a new
// profile, not another extractor.
type Profile struct {
	River      int
	Location   int
	WaterLevel int
	BankLevel  int // -1 when the variant has no bank-level column
	Status     int
	Trend      int // tooltip text; -1 when the variant has no trend column
	UpdateTime int
}

// ThaiwaterProfile matches the thaiwater.net water-level table: eight cells
// per row, with a capacity column at index 5 that the extractor ignores.
var ThaiwaterProfile = Profile{
	River:      0,
	Location:   1,
	WaterLevel: 2,
	BankLevel:  3,
	Status:     4,
	Trend:      6,
	UpdateTime: 7,
}

// MinCells is the smallest cell count a row needs before this profile can
// extract the required fields. Bank level and trend are optional and do not
// raise the minimum.
func (p Profile) MinCells() int {
	min := p.River
	for _, idx := range []int{p.Location, p.WaterLevel, p.Status, p.UpdateTime} {
		if idx > min {
			min = idx
		}
	}
	return min + 1
}

func (p Profile) cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return thai.NormalizeWhitespace(cells[idx])
}

// Extractor turns one rendered row into a StationRecord. It is a pure
// transformation over already-extracted text; validation happens here, at
// the boundary, so downstream code never needs presence checks.
type Extractor struct {
	profile Profile
}

// NewExtractor creates an extractor for one column layout.
func NewExtractor(profile Profile) *Extractor {
	return &Extractor{profile: profile}
}

// Extract builds a StationRecord from a row's station name and cells. The
// second return value is false when the row must be skipped: empty station
// name after normalization, or fewer cells than the profile minimum. Skips
// are soft; the caller counts them and moves on.
func (e *Extractor) Extract(stationName string, cells []string) (entities.StationRecord, bool) {
	name := thai.NormalizeWhitespace(stationName)
	if name == "" || len(cells) < e.profile.MinCells() {
		return entities.StationRecord{}, false
	}

	location := e.profile.cell(cells, e.profile.Location)

	return entities.StationRecord{
		StationName: name,
		River:       e.profile.cell(cells, e.profile.River),
		Location:    location,
		WaterLevel:  e.profile.cell(cells, e.profile.WaterLevel),
		BankLevel:   e.profile.cell(cells, e.profile.BankLevel),
		Status:      entities.StatusFromLabel(e.profile.cell(cells, e.profile.Status)),
		Trend:       entities.TrendFromTitle(e.profile.cell(cells, e.profile.Trend)),
		UpdateTime:  e.profile.cell(cells, e.profile.UpdateTime),
		Tambon:      thai.ExtractTambon(location),
	}, true
}
