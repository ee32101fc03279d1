// Package domain models seismic-event listings published by Turkish
// observatory sources and their conversion into canonical records.
//
// # Data Sources
//
// The primary source is the Kandilli Observatory (KOERI) "last events"
// listing, a fixed-width text block inside a <pre> element. The first seven
// lines are headers; each remaining line is one event:
//
//	2024.06.17 14:32:10  38.4210  27.1400   7.2  -.-  4.1  -.-  SEFERIHISAR (IZMIR)   İlksel
//
// Columns: date, time, latitude, longitude, depth (km), then three magnitude
// columns (MD, ML, Mw; unreported values appear as the "-.-" sentinel), the
// free-text location, and an optional solution-status token (İlksel =
// preliminary, REVIZE = revised).
//
// Mirror listings exist in three further shapes: a tagged text layout where a
// magnitude-type code precedes the value ("ML 4.1"), sometimes with records
// wrapped across physical lines; an HTML table layout; and a structured JSON
// API that carries a native event identifier.
//
// # Listing Conventions
//
// Location format:
//
//	"<place> (<region>)"  →  e.g. "SEFERIHISAR (IZMIR)"
//	Which side holds the specific place and which the administrative region
//	differs between source layouts, so the split direction is part of the
//	Variant configuration rather than a global rule. A tail that is entirely
//	one parenthesized segment is a bare place, not a place/region pair.
//
// Decimal format:
//
//	Some layouts publish decimals with a Turkish comma separator ("7,2").
//	All numeric parsing folds commas to periods first.
//
// Sentinel values:
//
//	Tokens made only of dashes and periods ("-.-", "--") mean "not reported".
//	A sentinel magnitude normalizes to a nil magnitude; whether that rejects
//	the row is the variant's strictness setting.
//
// # Identity
//
// Events carry no native identifier in the text layouts, so the identity key
// is synthesized from the digits of date, time, latitude, and longitude (see
// [IdentityKey]). The key is deterministic and collision-by-design for the
// same timestamp and coordinates, which makes repeated polling idempotent
// under the store's ON CONFLICT DO NOTHING policy. The structured API's
// native identifier is used verbatim when present.
package domain
