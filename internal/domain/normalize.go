package domain

import (
	"math"
	"regexp"
	"strings"
	"time"
)

var (
	// parenTailRe splits a "text (parenthetical)" location tail.
	parenTailRe = regexp.MustCompile(`^(.*\S)\s*\(([^)]+)\)$`)
	// wholeParenRe matches a tail that is entirely one parenthesized segment.
	wholeParenRe = regexp.MustCompile(`^\(([^)]+)\)$`)
	timeTokenRe  = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
)

// solutionStatuses are the trailing classification tokens the KOERI listing
// appends to the location tail, in diacritics-folded form.
var solutionStatuses = map[string]struct{}{
	"ilksel": {}, // preliminary solution
	"revize": {}, // revised solution
}

// Normalize converts one raw row into a canonical QuakeEvent according to the
// variant's layout configuration. Failures return a *RowError carrying the
// rejection reason and the offending row; they are per-row outcomes, never
// batch failures.
func Normalize(row RawRow, v Variant) (QuakeEvent, error) {
	switch v.Kind {
	case KindStructured:
		return normalizeStructured(row, v)
	case KindHTMLTable:
		return normalizeTable(row, v)
	default:
		return normalizeText(row, v)
	}
}

func normalizeText(row RawRow, v Variant) (QuakeEvent, error) {
	fields := row.Fields
	if len(fields) < v.MinColumns {
		return QuakeEvent{}, rejectf(row, ReasonInsufficientColumns, "got %d, want at least %d", len(fields), v.MinColumns)
	}

	date, err := parseListingDate(fields[0])
	if err != nil {
		return QuakeEvent{}, rejectf(row, ReasonBadDate, "%q", fields[0])
	}

	idx := 1
	timeOfDay := ""
	if timeTokenRe.MatchString(fields[1]) {
		timeOfDay, err = parseListingTime(fields[1])
		if err != nil {
			return QuakeEvent{}, rejectf(row, ReasonBadTime, "%q", fields[1])
		}
		idx = 2
	} else if !v.TimeOptional {
		return QuakeEvent{}, rejectf(row, ReasonBadTime, "%q is not a time of day", fields[1])
	}

	lat, rerr := parseCoordinate(row, fields[idx], 90, "latitude")
	if rerr != nil {
		return QuakeEvent{}, rerr
	}
	lon, rerr := parseCoordinate(row, fields[idx+1], 180, "longitude")
	if rerr != nil {
		return QuakeEvent{}, rerr
	}

	depth, err := parseDecimal(fields[idx+2])
	if err != nil || math.IsNaN(depth) || math.IsInf(depth, 0) || depth < 0 {
		return QuakeEvent{}, rejectf(row, ReasonBadDepth, "%q", fields[idx+2])
	}

	var (
		magnitude *float64
		magType   string
		tail      []string
	)
	if len(v.MagnitudeColumns) > 0 {
		magnitude, magType = selectFixedMagnitude(fields, v)
		tail = fields[v.TailStart:]
	} else {
		magnitude, magType, tail = scanTaggedMagnitude(fields[idx+3:], v.MagnitudePriority)
	}
	if magnitude == nil && v.RejectNullMagnitude {
		return QuakeEvent{}, rejectf(row, ReasonMissingMagnitude, "no reported magnitude")
	}

	eventType := ""
	if v.TrailingType && len(tail) > 0 {
		if folded := FoldText(tail[len(tail)-1]); isSolutionStatus(folded) {
			eventType = folded
			tail = tail[:len(tail)-1]
		}
	}

	place, area := splitLocation(strings.Join(tail, " "), v.ParenthesesHold)

	return QuakeEvent{
		Date:          date,
		Time:          timeOfDay,
		Lat:           lat,
		Lon:           lon,
		DepthKm:       depth,
		Magnitude:     magnitude,
		MagnitudeType: magType,
		Place:         place,
		Area:          area,
		EventType:     eventType,
		Variant:       v.Name,
		IngestedAt:    clock.Now().UTC(),
	}, nil
}

func normalizeTable(row RawRow, v Variant) (QuakeEvent, error) {
	cells := row.Fields
	if len(cells) < v.TableColumns {
		return QuakeEvent{}, rejectf(row, ReasonInsufficientColumns, "got %d cells, want %d", len(cells), v.TableColumns)
	}

	date, timeOfDay, err := splitTimestamp(cells[0])
	if err != nil {
		return QuakeEvent{}, rejectf(row, ReasonBadDate, "%q", cells[0])
	}

	lat, rerr := parseCoordinate(row, cells[1], 90, "latitude")
	if rerr != nil {
		return QuakeEvent{}, rerr
	}
	lon, rerr := parseCoordinate(row, cells[2], 180, "longitude")
	if rerr != nil {
		return QuakeEvent{}, rerr
	}

	depth, err := parseDecimal(cells[3])
	if err != nil || depth < 0 {
		return QuakeEvent{}, rejectf(row, ReasonBadDepth, "%q", cells[3])
	}

	var magnitude *float64
	magType := ""
	if !isSentinel(cells[5]) {
		if val, err := parseDecimal(cells[5]); err == nil {
			magnitude = &val
			if !isSentinel(cells[4]) {
				magType = FoldText(cells[4])
			}
		}
	}
	if magnitude == nil && v.RejectNullMagnitude {
		return QuakeEvent{}, rejectf(row, ReasonMissingMagnitude, "no reported magnitude")
	}

	place, area := splitLocation(cells[6], v.ParenthesesHold)

	return QuakeEvent{
		Date:          date,
		Time:          timeOfDay,
		Lat:           lat,
		Lon:           lon,
		DepthKm:       depth,
		Magnitude:     magnitude,
		MagnitudeType: magType,
		Place:         place,
		Area:          area,
		Variant:       v.Name,
		IngestedAt:    clock.Now().UTC(),
	}, nil
}

func normalizeStructured(row RawRow, v Variant) (QuakeEvent, error) {
	rec := row.Record
	if rec == nil {
		return QuakeEvent{}, rejectf(row, ReasonInsufficientColumns, "structured row without record")
	}

	date, timeOfDay, err := splitTimestamp(rec.Date)
	if err != nil {
		return QuakeEvent{}, rejectf(row, ReasonBadDate, "%q", rec.Date)
	}

	lat, rerr := parseCoordinate(row, rec.Latitude, 90, "latitude")
	if rerr != nil {
		return QuakeEvent{}, rerr
	}
	lon, rerr := parseCoordinate(row, rec.Longitude, 180, "longitude")
	if rerr != nil {
		return QuakeEvent{}, rerr
	}

	depth, err := parseDecimal(rec.Depth)
	if err != nil || depth < 0 {
		return QuakeEvent{}, rejectf(row, ReasonBadDepth, "%q", rec.Depth)
	}

	var magnitude *float64
	if rec.Magnitude != "" && !isSentinel(rec.Magnitude) {
		if val, err := parseDecimal(rec.Magnitude); err == nil {
			magnitude = &val
		}
	}
	if magnitude == nil && v.RejectNullMagnitude {
		return QuakeEvent{}, rejectf(row, ReasonMissingMagnitude, "no reported magnitude")
	}

	place, area := splitLocation(rec.Location, v.ParenthesesHold)
	if rec.Province != "" {
		area = strings.TrimSpace(rec.Province)
	}

	return QuakeEvent{
		Date:       date,
		Time:       timeOfDay,
		Lat:        lat,
		Lon:        lon,
		DepthKm:    depth,
		Magnitude:  magnitude,
		Place:      place,
		Area:       area,
		EventType:  FoldText(rec.Type),
		SourceID:   strings.TrimSpace(rec.EventID),
		Variant:    v.Name,
		IngestedAt: clock.Now().UTC(),
	}, nil
}

// selectFixedMagnitude reads the fixed per-type magnitude columns in priority
// order and returns the first reportable value. Sentinels and garbage both
// fall through to the next type; all-sentinel rows yield a nil magnitude.
func selectFixedMagnitude(fields []string, v Variant) (*float64, string) {
	for _, magType := range v.MagnitudePriority {
		col, ok := v.MagnitudeColumns[magType]
		if !ok || col >= len(fields) {
			continue
		}
		token := fields[col]
		if isSentinel(token) {
			continue
		}
		if val, err := parseDecimal(token); err == nil {
			return &val, magType
		}
	}
	return nil, ""
}

// scanTaggedMagnitude consumes leading "<type> <value>" pairs from the tokens
// after the depth column, then picks the highest-priority reported type. The
// remaining tokens are the location tail.
func scanTaggedMagnitude(rest []string, priority []string) (*float64, string, []string) {
	known := make(map[string]struct{}, len(priority))
	for _, t := range priority {
		known[t] = struct{}{}
	}

	reported := make(map[string]*float64)
	i := 0
	for i < len(rest) {
		tag := FoldText(rest[i])
		if _, ok := known[tag]; !ok {
			break
		}
		if i+1 >= len(rest) {
			// Trailing bare tag with no value token ends the scan.
			i = len(rest)
			break
		}
		if !isSentinel(rest[i+1]) {
			if val, err := parseDecimal(rest[i+1]); err == nil {
				v := val
				reported[tag] = &v
			}
		}
		i += 2
	}

	for _, magType := range priority {
		if val, ok := reported[magType]; ok && val != nil {
			return val, magType, rest[i:]
		}
	}
	return nil, "", rest[i:]
}

// splitLocation applies the variant's parenthetical convention to a location
// tail. A tail that is entirely one parenthesized segment is a bare place
// with the parentheses stripped.
func splitLocation(tail string, side ParenSide) (place, area string) {
	tail = strings.TrimSpace(tail)
	if m := wholeParenRe.FindStringSubmatch(tail); m != nil {
		return strings.TrimSpace(m[1]), ""
	}
	m := parenTailRe.FindStringSubmatch(tail)
	if m == nil {
		return tail, ""
	}
	lead, paren := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if side == ParenHoldsPlace {
		return paren, lead
	}
	return lead, paren
}

func parseCoordinate(row RawRow, token string, limit float64, name string) (float64, *RowError) {
	val, err := parseDecimal(token)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) || val < -limit || val > limit {
		return 0, rejectf(row, ReasonBadCoordinate, "%s %q", name, token)
	}
	return val, nil
}

// parseListingDate converts a dotted or dashed date token into ISO form,
// validating that it is a real calendar date.
func parseListingDate(token string) (string, error) {
	token = strings.ReplaceAll(strings.TrimSpace(token), ".", "-")
	t, err := time.Parse("2006-01-02", token)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

func parseListingTime(token string) (string, error) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ":") == 1 {
		token += ":00"
	}
	t, err := time.Parse("15:04:05", token)
	if err != nil {
		return "", err
	}
	return t.Format("15:04:05"), nil
}

// splitTimestamp breaks a combined "date time" or "dateTtime" token into the
// ISO date and the time of day. A date-only token yields an empty time.
func splitTimestamp(token string) (string, string, error) {
	token = strings.TrimSpace(strings.ReplaceAll(token, "T", " "))
	datePart, timePart, found := strings.Cut(token, " ")
	date, err := parseListingDate(datePart)
	if err != nil {
		return "", "", err
	}
	if !found || strings.TrimSpace(timePart) == "" {
		return date, "", nil
	}
	timeOfDay, err := parseListingTime(timePart)
	if err != nil {
		return "", "", err
	}
	return date, timeOfDay, nil
}

func isSolutionStatus(folded string) bool {
	_, ok := solutionStatuses[folded]
	return ok
}
