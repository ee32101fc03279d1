// Package decode turns raw listing documents into ordered RawRow sequences.
// It handles the four known source shapes: fixed-layout text blocks, grouped
// multi-line text, HTML tables, and structured JSON arrays. Decoding is a
// pure transform: rows come out in document order, short rows are dropped and
// counted, and deduplication is left to the identity layer.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/quakewatch/quake-data-etl/internal/domain"
)

// ErrNoListing marks a document with no recognizable listing at all. The
// pipeline treats it as a run-aborting decode failure, not a partial result.
var ErrNoListing = errors.New("no listing found in document")

// dateAnchorRe matches the date token that starts every logical record in the
// grouped text layout; continuation lines lack it.
var dateAnchorRe = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}\b`)

// Result is one decoded document: the usable rows plus the count of physical
// rows dropped for having too few fields.
type Result struct {
	Rows    []domain.RawRow
	Skipped int
}

// Decode parses a raw document according to the variant's layout.
func Decode(doc []byte, v domain.Variant) (Result, error) {
	switch v.Kind {
	case domain.KindPlainText:
		text, err := listingText(doc)
		if err != nil {
			return Result{}, err
		}
		return decodeLines(text, v)
	case domain.KindGroupedText:
		text, err := listingText(doc)
		if err != nil {
			return Result{}, err
		}
		return decodeGrouped(text, v)
	case domain.KindHTMLTable:
		return decodeTable(doc, v)
	case domain.KindStructured:
		return decodeStructured(doc, v)
	default:
		return Result{}, fmt.Errorf("variant %q: unsupported kind %q", v.Name, v.Kind)
	}
}

// decodeLines handles the fixed layout: drop the header lines, then one
// whitespace-tokenized record per physical line.
func decodeLines(doc string, v domain.Variant) (Result, error) {
	lines := strings.Split(doc, "\n")
	if len(lines) <= v.HeaderLines {
		return Result{}, fmt.Errorf("%w: %d lines, header is %d", ErrNoListing, len(lines), v.HeaderLines)
	}

	var res Result
	for i, line := range lines[v.HeaderLines:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < v.MinColumns {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, domain.RawRow{
			Fields:  fields,
			Line:    strings.TrimSpace(line),
			Ordinal: i,
		})
	}
	if len(res.Rows) == 0 && res.Skipped == 0 {
		return Result{}, fmt.Errorf("%w: no record lines after header", ErrNoListing)
	}
	return res, nil
}

// decodeGrouped handles mirrors that wrap records across physical lines.
// Every logical record starts with a date token; lines without one belong to
// the preceding record and are joined before tokenizing. Unanchored lines
// before the first record are dropped, not counted.
func decodeGrouped(doc string, v domain.Variant) (Result, error) {
	lines := strings.Split(doc, "\n")
	if len(lines) <= v.HeaderLines {
		return Result{}, fmt.Errorf("%w: %d lines, header is %d", ErrNoListing, len(lines), v.HeaderLines)
	}

	var groups []string
	for _, line := range lines[v.HeaderLines:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if dateAnchorRe.MatchString(trimmed) {
			groups = append(groups, trimmed)
			continue
		}
		if len(groups) == 0 {
			// Un-anchored noise ahead of the first record.
			continue
		}
		groups[len(groups)-1] += " " + trimmed
	}
	if len(groups) == 0 {
		return Result{}, fmt.Errorf("%w: no record lines after header", ErrNoListing)
	}

	var res Result
	for i, group := range groups {
		fields := strings.Fields(group)
		if len(fields) < v.MinColumns {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, domain.RawRow{
			Fields:  fields,
			Line:    group,
			Ordinal: i,
		})
	}
	return res, nil
}

// decodeStructured passes a JSON array of named records through unchanged;
// the normalizer applies the same validation as for text rows.
func decodeStructured(doc []byte, v domain.Variant) (Result, error) {
	var records []domain.StructuredRecord
	if err := json.Unmarshal(doc, &records); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNoListing, err)
	}

	res := Result{Rows: make([]domain.RawRow, 0, len(records))}
	for i := range records {
		res.Rows = append(res.Rows, domain.RawRow{
			Record:  &records[i],
			Ordinal: i,
		})
	}
	return res, nil
}
