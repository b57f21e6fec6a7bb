// Package export serializes aggregate series to CSV for download.
// Output is a complete in-memory UTF-8 buffer; triggering the download
// and naming the file belong to the caller.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

// longDateLayout renders dates as a long-form string. The embedded
// comma forces CSV quoting, which keeps the column intact for
// spreadsheet imports.
const longDateLayout = "January 2, 2006"

// Kind selects how a column's values are rendered.
type Kind int

const (
	// Text renders the value as-is.
	Text Kind = iota
	// Date renders a time.Time as a long-form date string.
	Date
	// Money renders a decimal amount with thousands separators and
	// two decimal places.
	Money
	// Count renders an integer bare, without grouping. Monetary
	// totals are grouped but counts are not; this asymmetry is a
	// stable display contract.
	Count
)

// Column describes one CSV column: its literal header and how its
// values render. Header names are stable contracts that downstream
// tooling may depend on.
type Column struct {
	Header string
	Kind   Kind
}

// ToCSV writes one header row followed by one row per record. Each row
// must have exactly one value per column.
func ToCSV(cols []Column, rows [][]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	if err := w.Write(headers); err != nil {
		return nil, err
	}

	for _, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row has %d values, want %d", len(row), len(cols))
		}
		record := make([]string, len(cols))
		for i, v := range row {
			cell, err := renderCell(cols[i].Kind, v)
			if err != nil {
				return nil, err
			}
			record[i] = cell
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderCell(kind Kind, v any) (string, error) {
	switch kind {
	case Date:
		t, ok := v.(time.Time)
		if !ok {
			return "", fmt.Errorf("date column value is %T, want time.Time", v)
		}
		return t.Format(longDateLayout), nil
	case Money:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return "", fmt.Errorf("money column value is %T, want decimal.Decimal", v)
		}
		f, _ := d.Round(2).Float64()
		return humanize.CommafWithDigits(f, 2), nil
	case Count:
		n, ok := v.(int)
		if !ok {
			return "", fmt.Errorf("count column value is %T, want int", v)
		}
		return strconv.Itoa(n), nil
	default:
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("text column value is %T, want string", v)
		}
		return s, nil
	}
}

// Filename builds a download filename with the export date embedded,
// e.g. "daily-volume-2024-03-31.csv".
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", prefix, now.Format("2006-01-02"))
}

// ============================================================
// Report shapes
// ============================================================

// DailyVolumeReport renders a bucket series with the stable header
// Date, Number of Transactions, Total Volume.
func DailyVolumeReport(buckets []domain.DailyBucket) ([]byte, error) {
	cols := []Column{
		{Header: "Date", Kind: Date},
		{Header: "Number of Transactions", Kind: Count},
		{Header: "Total Volume", Kind: Money},
	}
	rows := make([][]any, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []any{b.Date, b.Count, b.TotalAmount})
	}
	return ToCSV(cols, rows)
}

// RevenueReport renders a revenue-by-type breakdown.
func RevenueReport(slices []domain.RevenueSlice) ([]byte, error) {
	cols := []Column{
		{Header: "Type", Kind: Text},
		{Header: "Amount", Kind: Money},
		{Header: "Percentage", Kind: Text},
	}
	rows := make([][]any, 0, len(slices))
	for _, s := range slices {
		rows = append(rows, []any{s.Type, s.Amount, strconv.FormatFloat(s.Percentage, 'f', 2, 64)})
	}
	return ToCSV(cols, rows)
}

// CustomerReport renders a customer leaderboard.
func CustomerReport(aggs []domain.CustomerAggregate) ([]byte, error) {
	cols := []Column{
		{Header: "Customer", Kind: Text},
		{Header: "Transactions", Kind: Count},
		{Header: "Total Amount", Kind: Money},
		{Header: "Last Activity", Kind: Date},
	}
	rows := make([][]any, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, []any{a.Actor, a.TransactionCount, a.TotalAmount, a.LastActivity})
	}
	return ToCSV(cols, rows)
}
