package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"scribebackend/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// renderExcel builds a two-sheet workbook: a Summary sheet with the core
// fields and a merged word-wrapped content cell, plus a Metadata sheet when
// the summary carries any metadata.
func renderExcel(summary *models.Summary) (*models.ExportArtifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Summary"
	f.SetSheetName("Sheet1", sheet)

	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "D", 40); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create wrap style: %w", err)
	}

	rows := [][]interface{}{
		{"Field", "Value"},
		{"Title", summary.Title},
		{"Source", string(summary.SourceType)},
		{"Created", summary.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	if summary.AIModel != nil {
		rows = append(rows, []interface{}{"Model", *summary.AIModel})
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	// Content lives in a merged block below the fields so long summaries stay
	// readable without column gymnastics
	contentRow := len(rows) + 2
	labelCell := fmt.Sprintf("A%d", contentRow)
	startCell := fmt.Sprintf("B%d", contentRow)
	endCell := fmt.Sprintf("D%d", contentRow+8)
	if err := f.SetCellValue(sheet, labelCell, "Content"); err != nil {
		return nil, fmt.Errorf("failed to write content label: %w", err)
	}
	if err := f.MergeCell(sheet, startCell, endCell); err != nil {
		return nil, fmt.Errorf("failed to merge content cell: %w", err)
	}
	if err := f.SetCellValue(sheet, startCell, summary.Content); err != nil {
		return nil, fmt.Errorf("failed to write content: %w", err)
	}
	if err := f.SetCellStyle(sheet, startCell, endCell, wrapStyle); err != nil {
		return nil, fmt.Errorf("failed to style content: %w", err)
	}

	if err := addMetadataSheet(f, summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return &models.ExportArtifact{
		FileName:    fmt.Sprintf("summary-%s.xlsx", summary.ID),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

func addMetadataSheet(f *excelize.File, summary *models.Summary) error {
	meta := summary.Metadata
	rows := [][]interface{}{}
	if meta.ChannelName != "" {
		rows = append(rows, []interface{}{"Channel", meta.ChannelName})
	}
	if meta.MessageCount > 0 {
		rows = append(rows, []interface{}{"Messages", meta.MessageCount})
	}
	if len(meta.Participants) > 0 {
		rows = append(rows, []interface{}{"Participants", fmt.Sprintf("%d", len(meta.Participants))})
	}
	if len(meta.SkillsDetected) > 0 {
		for _, skill := range meta.SkillsDetected {
			rows = append(rows, []interface{}{"Skill", skill})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	const sheet = "Metadata"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create metadata sheet: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "B", 30); err != nil {
		return fmt.Errorf("failed to set metadata column width: %w", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write metadata row: %w", err)
		}
	}
	return nil
}
