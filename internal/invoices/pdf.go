package invoices

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Money formats integer minor units as a fixed two-decimal amount.
func Money(cents int, currency string) string {
	return strings.ToUpper(currency) + " " + decimal.New(int64(cents), -2).StringFixed(2)
}

// Number is the human-facing invoice number for an order.
func Number(o orders.Order) string {
	id := strings.ReplaceAll(o.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("INV-%s-%s", o.CreatedAt.UTC().Format("20060102"), strings.ToUpper(id))
}

// Render draws a single-page A4 invoice.
func Render(o orders.Order, shop, currency string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+Number(o), true)
	pdf.SetCreator(shop, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, shop)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Invoice: "+Number(o))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Order: "+o.ID)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Date: "+o.CreatedAt.UTC().Format("2006-01-02"))
	pdf.Ln(6)
	if o.CustomerEmail != "" {
		pdf.Cell(0, 6, "Bill to: "+o.CustomerEmail)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Status: "+string(o.Status))
	pdf.Ln(10)

	widths := []float64{90, 20, 35, 35}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Item", "Qty", "Unit price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range o.Items {
		name := it.ProductName
		if name == "" {
			name = it.ProductID
		}
		pdf.CellFormat(widths[0], 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprint(it.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, Money(it.PriceCents, currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, Money(it.PriceCents*it.Qty, currency), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, Money(o.TotalCents, currency), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", o.ID, err)
	}
	return buf.Bytes(), nil
}
