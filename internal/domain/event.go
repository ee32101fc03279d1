package domain

import "time"

// RawRow is one undecoded listing entry. Text layouts fill Fields with the
// whitespace-tokenized (or cell-split) values; the structured layout carries
// the record directly. Line preserves the original text for diagnostics.
type RawRow struct {
	Fields  []string
	Record  *StructuredRecord
	Line    string
	Ordinal int
}

// StructuredRecord is one element of the structured JSON feed. All values
// arrive as strings; the normalizer applies the same numeric validation as
// for the text layouts.
type StructuredRecord struct {
	EventID   string `json:"eventID"`
	Date      string `json:"date"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Depth     string `json:"depth"`
	Magnitude string `json:"magnitude"`
	Type      string `json:"type"`
	Location  string `json:"location"`
	Province  string `json:"province"`
}

// QuakeEvent is the canonical, validated representation of one seismic event.
// It is constructed once by Normalize and never mutated afterwards.
type QuakeEvent struct {
	Date          string   `json:"date"`           // ISO calendar date, YYYY-MM-DD
	Time          string   `json:"time,omitempty"` // HH:MM:SS, empty when the source omits it
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	DepthKm       float64  `json:"depth_km"`
	Magnitude     *float64 `json:"magnitude"`                // nil = not reported by the source
	MagnitudeType string   `json:"magnitude_type,omitempty"` // ml, mw, md
	Place         string   `json:"place"`                    // may be empty, never absent
	Area          string   `json:"area,omitempty"`           // empty = no secondary region
	EventType     string   `json:"event_type,omitempty"`     // lower-cased, diacritics stripped
	SourceID      string   `json:"source_id,omitempty"`      // native identifier, structured feed only

	Variant    string    `json:"variant"`
	IngestedAt time.Time `json:"ingested_at"`
}

// UpsertOutcome reports what the store did with a candidate event.
type UpsertOutcome int

const (
	OutcomeInserted UpsertOutcome = iota
	OutcomeDuplicate
)

func (o UpsertOutcome) String() string {
	if o == OutcomeDuplicate {
		return "duplicate"
	}
	return "inserted"
}
