package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"order_id", "created_at", "user_id", "customer_email", "status", "total"}

func exportRecord(o OrderRow) []string {
	return []string{
		o.ID,
		o.CreatedAt.UTC().Format(time.RFC3339),
		o.UserID,
		o.CustomerEmail,
		o.Status,
		decimal.New(o.TotalCents, -2).StringFixed(2),
	}
}

// csvSafe neutralises cells a spreadsheet would evaluate as a formula.
func csvSafe(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func writeCSV(rows []OrderRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, o := range rows {
		rec := exportRecord(o)
		for i := range rec[:len(rec)-1] {
			rec[i] = csvSafe(rec[i])
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func writeXLSX(rows []OrderRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	for c, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for r, o := range rows {
		rec := exportRecord(o)
		for c := range rec {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var v any = rec[c]
			if c == len(rec)-1 {
				v, _ = decimal.New(o.TotalCents, -2).Float64()
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
