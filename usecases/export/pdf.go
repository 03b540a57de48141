package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"scribebackend/models"
)

// renderPDF produces a simple A4 document: title, metadata lines, then the
// content with markdown markers stripped. Layout fidelity is not a goal; the
// artifact exists so a summary can leave the product in a portable form.
func renderPDF(summary *models.Summary) (*models.ExportArtifact, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, summary.Title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, fmt.Sprintf("Source: %s", summary.SourceType), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Created: %s", summary.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	if summary.AIModel != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Model: %s", *summary.AIModel), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	for _, line := range strings.Split(summary.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "## "):
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 7, strings.TrimPrefix(trimmed, "## "), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case strings.HasPrefix(trimmed, "# "):
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 7, strings.TrimPrefix(trimmed, "# "), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case strings.HasPrefix(trimmed, "- "):
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, "  \x95 "+strings.TrimPrefix(trimmed, "- "), "", "L", false)
		case trimmed == "":
			pdf.Ln(3)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, trimmed, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize pdf: %w", err)
	}

	return &models.ExportArtifact{
		FileName:    fmt.Sprintf("summary-%s.pdf", summary.ID),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}
