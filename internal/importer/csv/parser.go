// Package csv reads bank statement CSV exports. The column layout is
// auto-detected by matching header rows against known profiles.
package csv

import (
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var ErrUnknownFormat = errors.New("no matching statement format found")

// Parser produces transaction params from a statement, trying each of its
// profiles in order.
type Parser struct {
	profiles []Profile
}

func NewParser(profiles ...Profile) *Parser {
	if len(profiles) == 0 {
		profiles = All()
	}

	return &Parser{profiles: profiles}
}

// Parse expects UTF-8 input; callers transcode other charsets first.
func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	tried := make(map[rune]bool)

	for _, candidate := range p.profiles {
		if tried[candidate.Comma] {
			continue
		}

		tried[candidate.Comma] = true

		rows, err := readRows(content, candidate.Comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := p.detectProfile(rows, candidate.Comma)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrUnknownFormat
}

func readRows(content []byte, comma rune) ([][]string, error) {
	reader := stdcsv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) lookup(name string) (int, bool) {
	idx, ok := c[strings.ToLower(name)]
	return idx, ok
}

// get returns the index for name, or -1 when the column is absent.
func (c colIndex) get(name string) int {
	if name == "" {
		return -1
	}

	if idx, ok := c.lookup(name); ok {
		return idx
	}

	return -1
}

// detectProfile scans rows for a header that matches one of the parser's
// profiles using the given separator. Returns the matched profile, column
// index map, and header row index.
func (p *Parser) detectProfile(rows [][]string, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[strings.ToLower(name)] = i
			}
		}

		for i := range p.profiles {
			if p.profiles[i].Comma == comma && matchesProfile(&p.profiles[i], cols) {
				return &p.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols.lookup(name); !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// Rows without a parseable date or a non-zero amount are skipped as
// footers or noise.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols.get(p.DateCol)
	descIdx := cols.get(p.DescCol)
	catIdx := cols.get(p.CategoryCol)

	txs := make([]transaction.CreateParams, 0, len(rows))

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		params := transaction.CreateParams{
			Description: desc,
			Amount:      amount,
			Date:        date,
		}

		if cat := cellValue(row, catIdx); cat != "" {
			params.Category = &cat
		}

		txs = append(txs, params)
	}

	return txs, nil
}

// parseDate tries to parse a date from the given cell index.
// Returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseAmount extracts the signed amount from a row based on the profile's
// amount mode. Debits come out negative.
func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(p, row, cols.get(p.AmountCol))
	case amountSplit:
		return parseSplitAmount(p, row, cols.get(p.DebitCol), cols.get(p.CreditCol))
	}

	return decimal.Zero, false
}

// parseSingleAmount handles a single signed amount column.
func parseSingleAmount(p *Profile, row []string, idx int) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	amount, err := p.parseAmount(s)
	if err != nil || amount.IsZero() {
		return decimal.Zero, false
	}

	return amount, true
}

// parseSplitAmount handles separate debit/credit columns.
func parseSplitAmount(p *Profile, row []string, debitIdx, creditIdx int) (decimal.Decimal, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		amount, err := p.parseAmount(s)
		if err == nil && !amount.IsZero() {
			return amount.Abs().Neg(), true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		amount, err := p.parseAmount(s)
		if err == nil && !amount.IsZero() {
			return amount.Abs(), true
		}
	}

	return decimal.Zero, false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
