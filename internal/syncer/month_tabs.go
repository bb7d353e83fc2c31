package syncer

import "regexp"

// monthTabRe accepts the tab spellings operators actually use:
// "Dec-24", "Dec 24", "December 2024", "Jan 2025".
var monthTabRe = regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[-\s]?('?\d{2}|\d{4})$`)

// IsMonthTab reports whether a sheet tab name looks like a month tab.
func IsMonthTab(name string) bool {
	return monthTabRe.MatchString(name)
}
