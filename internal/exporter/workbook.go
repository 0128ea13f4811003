package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apierrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

const defaultSheet = "Sheet1"

// Workbook builds an Excel file with one sheet per dashboard section
func Workbook(d *domain.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, apierrors.NewExportError("failed to create header style", err)
	}

	for i, s := range Sections(d) {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Sheet); err != nil {
				f.Close()
				return nil, apierrors.NewExportError("failed to rename sheet", err)
			}
		} else if _, err := f.NewSheet(s.Sheet); err != nil {
			f.Close()
			return nil, apierrors.NewExportError("failed to create sheet", err).WithContext("sheet", s.Sheet)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			f.Close()
			return nil, apierrors.NewExportError("failed to write sheet", err).WithContext("sheet", s.Sheet)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, s Section, headerStyle int) error {
	header := make([]interface{}, len(s.Headers))
	for i, h := range s.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(s.Sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", s.Sheet, err)
	}

	last, err := excelize.CoordinatesToCellName(len(s.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.Sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", s.Sheet, err)
	}

	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = workbookValue(v)
		}
		if err := f.SetSheetRow(s.Sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.Sheet, i+1, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(s.Headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(s.Sheet, "A", lastCol, 18)
}

// workbookValue keeps numbers numeric; excelize stringifies named types
func workbookValue(v interface{}) interface{} {
	if r, ok := v.(domain.Ratio); ok {
		return r.Float()
	}
	return v
}

// WriteWorkbook streams the dashboard workbook to w
func WriteWorkbook(w io.Writer, d *domain.Dashboard) error {
	f, err := Workbook(d)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return apierrors.NewExportError("failed to write workbook", err)
	}
	return nil
}

// SaveWorkbook writes the dashboard workbook to path
func SaveWorkbook(path string, d *domain.Dashboard) error {
	f, err := Workbook(d)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return apierrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}
	return nil
}
