package generic

import "strings"

// Profile describes the column layout of a statement CSV. Matching is done
// against lowercased, trimmed header names so "Date", "date" and " DATE "
// all address the same column.
type Profile struct {
	Name         string
	DateCols     []string
	DescCols     []string
	AmountCols   []string
	CategoryCols []string // optional
}

// requiredGroups returns the header-name alternatives that must each match
// at least one column for the profile to apply.
func (p Profile) requiredGroups() [][]string {
	return [][]string{p.DateCols, p.DescCols, p.AmountCols}
}

// profiles is the ordered list of layouts to try during auto-detection.
var profiles = []Profile{
	{
		Name:         "generic",
		DateCols:     []string{"date", "transaction date", "posted date"},
		DescCols:     []string{"description", "details", "memo", "name"},
		AmountCols:   []string{"amount", "value"},
		CategoryCols: []string{"category"},
	},
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
