package headers

import (
	"regexp"
	"strings"
)

// HeaderMap maps logical field names to zero-based column indexes.
// -1 means the field was not found; callers must check before indexing.
type HeaderMap map[string]int

// headerScanLimit bounds the search for a header row. Human-edited sheets
// sometimes carry a title or blank rows above the real header.
const headerScanLimit = 5

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9% ]+`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeHeader lowercases, strips punctuation, and collapses whitespace so
// "Hours_Worked " and "hours worked" compare equal.
func normalizeHeader(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DetectHeaderRow scans the first few rows for the one most likely to be the
// header: the first row containing a cell matching a date synonym. Returns
// the row index and true, or 0 and false when no header row exists.
func DetectHeaderRow(rows [][]string, schema FieldSchema) (int, bool) {
	dateSyns := schema.dateSynonyms()

	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			norm := normalizeHeader(cell)
			if norm == "" {
				continue
			}
			for _, syn := range dateSyns {
				if norm == syn || strings.Contains(norm, syn) {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// BuildHeaderMap resolves a column index for every logical field in the
// schema. Matching is case-insensitive and substring-tolerant: an exact
// normalized match wins, then containment in either direction. Columns are
// claimed at most once, in schema priority order.
func BuildHeaderMap(headerRow []string, schema FieldSchema) HeaderMap {
	normalized := make([]string, len(headerRow))
	for i, cell := range headerRow {
		normalized[i] = normalizeHeader(cell)
	}

	hm := make(HeaderMap, len(schema.Fields))
	claimed := make(map[int]bool, len(headerRow))

	for _, field := range schema.Fields {
		hm[field.Name] = -1
	}

	// Exact pass first so "production" cannot steal "Verified Production".
	for _, field := range schema.Fields {
		for _, syn := range field.Synonyms {
			idx := findColumn(normalized, claimed, syn, true)
			if idx >= 0 {
				hm[field.Name] = idx
				claimed[idx] = true
				break
			}
		}
	}

	for _, field := range schema.Fields {
		if hm[field.Name] >= 0 {
			continue
		}
		for _, syn := range field.Synonyms {
			idx := findColumn(normalized, claimed, syn, false)
			if idx >= 0 {
				hm[field.Name] = idx
				claimed[idx] = true
				break
			}
		}
	}

	return hm
}

func findColumn(normalized []string, claimed map[int]bool, synonym string, exact bool) int {
	for i, header := range normalized {
		if claimed[i] || header == "" {
			continue
		}
		if exact {
			if header == synonym {
				return i
			}
			continue
		}
		if strings.Contains(header, synonym) || strings.Contains(synonym, header) {
			return i
		}
	}
	return -1
}

// HasDate reports whether the map resolved the required date column.
func (hm HeaderMap) HasDate() bool {
	idx, ok := hm[FieldDate]
	return ok && idx >= 0
}

// Cell safely indexes a row by logical field, returning "" when the field is
// unmapped or the row is short.
func (hm HeaderMap) Cell(row []string, field string) string {
	idx, ok := hm[field]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
