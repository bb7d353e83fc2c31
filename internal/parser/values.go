package parser

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Layouts the date cell may arrive in. Sheets renders dates per the sheet's
// locale, so both US and ISO orderings show up in practice.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Mon, Jan 2, 2006",
}

var errUnparseableDate = errors.New("unparseable date")

// sheetsEpoch is day zero of the spreadsheet serial date system.
var sheetsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a date cell in the spreadsheet's timezone. Serial numbers
// (unformatted date cells) are accepted alongside textual layouts.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errUnparseableDate
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	// Serial date: days since 1899-12-30, fractional part is time of day.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 200000 {
		days := int(serial)
		t := sheetsEpoch.AddDate(0, 0, days)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
	}

	return time.Time{}, errUnparseableDate
}

// ParseDecimal parses a numeric cell. Blank returns nil, preserving the
// distinction between "not reported" and "reported as zero". A cell that
// fails to parse also returns nil rather than failing the record.
func ParseDecimal(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	if s == "" || s == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if negative {
		v = -v
	}
	return &v
}
