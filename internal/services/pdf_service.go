package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"billmint/internal/billing"
)

// PDFService renders invoices to PDF documents.
type PDFService interface {
	RenderInvoice(view *billing.InvoiceView) ([]byte, error)
}

type pdfService struct{}

// NewPDFService creates a new PDF render service
func NewPDFService() PDFService {
	return &pdfService{}
}

// RenderInvoice creates a printable A4 invoice from the presentation view.
func (s *pdfService) RenderInvoice(view *billing.InvoiceView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "TAX INVOICE")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, view.OrganizationName)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	if view.SellerGSTIN != "" {
		pdf.Cell(0, 6, fmt.Sprintf("GSTIN: %s", view.SellerGSTIN))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Invoice Number: %s", view.InvoiceNumber))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice Date: %s", view.IssueDate.Format("02-Jan-2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Due Date: %s", view.DueDate.Format("02-Jan-2006")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, view.CustomerName)
	pdf.Ln(6)
	if view.BuyerGSTIN != "" {
		pdf.Cell(0, 6, fmt.Sprintf("GSTIN: %s", view.BuyerGSTIN))
		pdf.Ln(6)
	}
	if line := addressLine(view); line != "" {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []string{"Description", "HSN/SAC", "Qty", "Rate", "Tax %", "Amount"}
	colWidths := []float64{55, 25, 15, 25, 15, 35}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	for _, line := range view.Lines {
		pdf.CellFormat(colWidths[0], 8, line.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, line.HSNSAC, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%d", line.TaxRate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[5], 8, line.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(4)

	// Totals block
	totals := []struct {
		label string
		value string
	}{
		{"Subtotal", view.Subtotal.StringFixed(2)},
		{"Discount", view.DiscountAmount.StringFixed(2)},
		{"Taxable Amount", view.TaxableAmount.StringFixed(2)},
	}
	if view.GSTType == "IGST" {
		totals = append(totals, struct{ label, value string }{"IGST", view.IGST.StringFixed(2)})
	} else {
		totals = append(totals,
			struct{ label, value string }{"CGST", view.CGST.StringFixed(2)},
			struct{ label, value string }{"SGST", view.SGST.StringFixed(2)},
		)
	}
	totals = append(totals,
		struct{ label, value string }{"Grand Total", view.GrandTotal.StringFixed(2)},
		struct{ label, value string }{"Amount Due", view.DueAmount.StringFixed(2)},
	)
	for _, row := range totals {
		pdf.CellFormat(130, 7, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, row.value, "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	if view.ReturnAmount.IsPositive() {
		pdf.CellFormat(130, 7, "Amount to Return", "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, view.ReturnAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 6, view.AmountInWords, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func addressLine(view *billing.InvoiceView) string {
	addr := view.BillingAddress
	parts := []string{}
	for _, p := range []string{addr.Line1, addr.Line2, addr.City, addr.State, addr.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
