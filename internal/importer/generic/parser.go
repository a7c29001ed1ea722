// Package generic parses header-addressed statement CSVs: any export with
// date, description and amount columns, in whatever order the bank emits
// them.
package generic

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/penny/internal/encoding"
	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]ledger.Transaction, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no header row found: expected date, description and amount columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:]), nil
}

// detectDelimiter picks between comma and semicolon by counting which
// appears more often in the first line.
func detectDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}

	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}

	return ','
}

// colIndex maps normalized header names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := normalizeHeader(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if every required column group has at least one
// matching header.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, group := range p.requiredGroups() {
		if _, ok := findCol(cols, group); !ok {
			return false
		}
	}

	return true
}

// findCol returns the index of the first alternative present in cols.
func findCol(cols colIndex, alternatives []string) (int, bool) {
	for _, name := range alternatives {
		if idx, ok := cols[name]; ok {
			return idx, true
		}
	}

	return -1, false
}

// parseRows extracts transactions from data rows using the matched profile.
// Rows whose date or amount cannot be parsed are skipped (footers, totals).
func parseRows(p *Profile, cols colIndex, rows [][]string) []ledger.Transaction {
	dateIdx, _ := findCol(cols, p.DateCols)
	descIdx, _ := findCol(cols, p.DescCols)
	amountIdx, _ := findCol(cols, p.AmountCols)
	categoryIdx, hasCategory := findCol(cols, p.CategoryCols)

	var txs []ledger.Transaction

	for _, row := range rows {
		date := cellValue(row, dateIdx)
		if date == "" {
			continue
		}

		amount, err := parseAmount(cellValue(row, amountIdx))
		if err != nil {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			continue
		}

		category := "Uncategorized"
		if hasCategory {
			if c := cellValue(row, categoryIdx); c != "" {
				category = c
			}
		}

		txs = append(txs, ledger.Transaction{
			Date:         normalizeDate(date),
			Amount:       amount,
			Description:  desc,
			Category:     category,
			MerchantName: desc,
		})
	}

	return txs
}

// dateLayouts are the statement date formats seen in the wild, tried in order.
var dateLayouts = []string{
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

// normalizeDate rewrites a parseable date as ISO. Unrecognized formats are
// kept verbatim so the row still imports.
func normalizeDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}

	return s
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
