package domain

import (
	"fmt"
	"sort"
)

// SourceKind identifies the physical shape of a listing document.
type SourceKind string

const (
	KindPlainText   SourceKind = "plain-text"   // fixed layout, one record per line
	KindGroupedText SourceKind = "grouped-text" // records may wrap across lines
	KindHTMLTable   SourceKind = "html-table"
	KindStructured  SourceKind = "structured" // JSON array with named fields
)

// ParenSide declares which half of a "text (parenthetical)" location tail
// carries which meaning. Observed source layouts disagree, so this is
// per-variant configuration, not a global rule.
type ParenSide string

const (
	// ParenHoldsArea: leading text is the place, the parenthetical the region.
	ParenHoldsArea ParenSide = "area"
	// ParenHoldsPlace: leading text is the region, the parenthetical the place.
	ParenHoldsPlace ParenSide = "place"
)

// Variant is the parsing configuration for one known source layout. The
// upstream sources proliferate by copy-and-modify, so every layout quirk
// (column counts, magnitude policy, split direction, strictness) lives here
// instead of in forked parsing code.
type Variant struct {
	Name string
	Kind SourceKind

	// Text layouts.
	HeaderLines int // leading lines to drop before tokenizing
	MinColumns  int // rows with fewer tokens are dropped at decode time

	// HTML table layout.
	TableColumns int // expected cell count per body row

	// Magnitude policy. MagnitudeColumns maps a type code to its fixed token
	// offset; when empty the normalizer scans for a type-tag token instead
	// and reads the value following it. MagnitudePriority orders the type
	// codes, preferred first.
	MagnitudeColumns  map[string]int
	MagnitudePriority []string

	// RejectNullMagnitude makes a sentinel ("-.-") magnitude reject the row
	// instead of storing a null value.
	RejectNullMagnitude bool

	// TimeOptional permits rows without a time-of-day token. Layouts that
	// embed time in a combined timestamp leave this false.
	TimeOptional bool

	// TrailingType marks layouts whose location tail ends with a
	// classification token (solution status) to split off and normalize.
	TrailingType bool

	ParenthesesHold ParenSide

	// TailStart is the token offset where the free-text location tail begins
	// for fixed-column text layouts. Tag-scan layouts compute it instead.
	TailStart int
}

// The closed set of known source layouts.
var (
	// VariantKOERIList is the classic Kandilli <pre> listing: seven header
	// lines, fixed columns date time lat lon depth MD ML Mw, location tail,
	// trailing solution status. ML preferred, as the original consumers read.
	VariantKOERIList = Variant{
		Name:              "koeri-list",
		Kind:              KindPlainText,
		HeaderLines:       7,
		MinColumns:        9,
		MagnitudeColumns:  map[string]int{"md": 5, "ml": 6, "mw": 7},
		MagnitudePriority: []string{"ml", "mw", "md"},
		TrailingType:      true,
		ParenthesesHold:   ParenHoldsArea,
		TailStart:         8,
	}

	// VariantKOERITagged is the mirror layout where the preferred magnitude
	// appears as a "<type> <value>" token pair after the depth column and the
	// parenthetical side is reversed relative to the classic listing. Some
	// mirror snapshots publish date-only rows, so time is optional here.
	VariantKOERITagged = Variant{
		Name:              "koeri-tagged",
		Kind:              KindPlainText,
		HeaderLines:       6,
		MinColumns:        6,
		MagnitudePriority: []string{"ml", "mw", "md"},
		TimeOptional:      true,
		ParenthesesHold:   ParenHoldsPlace,
	}

	// VariantKOERIGrouped is the tagged layout as republished by mirrors that
	// wrap long records across physical lines; the decoder re-segments on the
	// leading date anchor before tokenizing.
	VariantKOERIGrouped = Variant{
		Name:              "koeri-grouped",
		Kind:              KindGroupedText,
		HeaderLines:       6,
		MinColumns:        6,
		MagnitudePriority: []string{"ml", "mw", "md"},
		TimeOptional:      true,
		ParenthesesHold:   ParenHoldsPlace,
	}

	// VariantAFADTable is the HTML event table: date-time, lat, lon, depth,
	// magnitude type, magnitude, location.
	VariantAFADTable = Variant{
		Name:            "afad-table",
		Kind:            KindHTMLTable,
		TableColumns:    7,
		ParenthesesHold: ParenHoldsArea,
	}

	// VariantAFADAPI is the structured JSON feed. It carries a native event
	// identifier and always reports a magnitude, so it is strict.
	VariantAFADAPI = Variant{
		Name:                "afad-api",
		Kind:                KindStructured,
		RejectNullMagnitude: true,
		ParenthesesHold:     ParenHoldsArea,
	}
)

var variants = map[string]Variant{
	VariantKOERIList.Name:    VariantKOERIList,
	VariantKOERITagged.Name:  VariantKOERITagged,
	VariantKOERIGrouped.Name: VariantKOERIGrouped,
	VariantAFADTable.Name:    VariantAFADTable,
	VariantAFADAPI.Name:      VariantAFADAPI,
}

// VariantByName resolves a configured variant name.
func VariantByName(name string) (Variant, error) {
	v, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown source variant %q", name)
	}
	return v, nil
}

// VariantNames lists the known layout names, for config validation messages.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
