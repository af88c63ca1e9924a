// Package lead defines the record that flows through the pipeline. A lead is
// created from a search result, enriched at most once, crawled at most once,
// scored exactly once and then persisted. Its identity is the external place
// ID; later stages only add fields.
package lead

// Status is the final tri-state classification of a lead.
type Status string

const (
	StatusQualified Status = "qualified"
	StatusNoEmail   Status = "no_email"
	StatusDiscarded Status = "discarded"
)

// Geometry is the geographic location returned by the details lookup.
type Geometry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AddressComponent is one structured piece of the formatted address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Lead accumulates attributes across pipeline stages.
type Lead struct {
	// Search stage.
	PlaceID     string
	Name        string
	Categories  []string
	Address     string
	Rating      float64
	RatingCount int
	OriginQuery string

	// Enrichment stage.
	Phone             string
	Website           string
	Location          *Geometry
	AddressComponents []AddressComponent

	// Assigned by the orchestration loop.
	Niche        string
	City         string
	Neighborhood string
	// Competition is the unique-result count of the lead's niche batch, a
	// coarse market-saturation proxy, not a true competitor count.
	Competition int

	// Crawl stage. Empty when no corporate address was found.
	CorporateEmail string

	// Scoring stage.
	Score        int
	ScoreReasons []string
	Status       Status
}

// Sublocality returns the first sublocality-typed address component, used to
// fill the lead's neighborhood after enrichment.
func (l *Lead) Sublocality() string {
	for _, c := range l.AddressComponents {
		for _, t := range c.Types {
			if t == "sublocality" || t == "sublocality_level_1" {
				return c.LongName
			}
		}
	}
	return ""
}
