package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"gakkaihub/internal/models"
)

// buildReceiptPDF renders the receipt document stored alongside the
// receipt row. Core fonts only, so labels stay in Latin script.
func buildReceiptPDF(receipt *models.Receipt, invoice *models.Invoice, member *models.Member, society *models.Society) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Receipt Number: %s", receipt.ReceiptNo))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Issued: %s", receipt.IssuedAt.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice: %s (FY%d)", invoice.ID.String(), invoice.FiscalYear))
	pdf.Ln(12)

	if society != nil {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, "ISSUED BY:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, society.Name)
		pdf.Ln(6)
		if society.BillingEmail != "" {
			pdf.Cell(0, 6, society.BillingEmail)
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	if member != nil {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, "RECEIVED FROM:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("%s (%s)", member.Name, member.MemberNo))
		pdf.Ln(6)
		if member.Affiliation != "" {
			pdf.Cell(0, 6, member.Affiliation)
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Amount Received: JPY %d", invoice.Amount))
	pdf.Ln(10)
	if invoice.PaidAt != nil {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Payment Date: %s", invoice.PaidAt.Format("02-Jan-2006")))
		pdf.Ln(6)
	}
	if invoice.PaymentMethod != nil {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Payment Method: %s", *invoice.PaymentMethod))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
