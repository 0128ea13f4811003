// Package exporter writes rendered dashboards as Excel workbooks and CSV
// files.
//
// Sections flattens a dashboard into named tables. WriteWorkbook puts each
// table on its own sheet; CSVWriter writes one table with a UTF-8 BOM so
// Excel detects the encoding. Undefined ratios are written as empty cells.
//
// Example usage:
//
//	dash, _ := svc.Render(ctx, req)
//	err := exporter.WriteWorkbook(w, dash)
//
//	csvw := exporter.NewCSVWriter(paths)
//	err = csvw.WriteSection(w, dash, domain.SectionRanking)
package exporter
