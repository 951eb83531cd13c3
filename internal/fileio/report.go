package fileio

import (
	"fmt"
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"cv-tailor/internal/tailor/model"
)

const reportSheet = "Scores"

// WriteScoresXLSX пишет отчёт пакетной проверки в xlsx.
func WriteScoresXLSX(w io.Writer, res model.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return err
	}

	header := []any{"Name", "Score", "Matched", "Missing"}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(reportSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range res.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := []any{row.Name, row.Score, strings.Join(row.Matched, ", "), strings.Join(row.Missing, ", ")}
		if err := f.SetSheetRow(reportSheet, cell, &vals); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	_ = f.SetColWidth(reportSheet, "A", "A", 24)
	_ = f.SetColWidth(reportSheet, "C", "D", 60)

	// ключевые слова вакансии — в отдельную строку под таблицей
	kwCell, _ := excelize.CoordinatesToCellName(1, len(res.Rows)+3)
	if err := f.SetCellValue(reportSheet, kwCell, "Keywords: "+strings.Join(res.Keywords, ", ")); err != nil {
		return err
	}

	return f.Write(w)
}
