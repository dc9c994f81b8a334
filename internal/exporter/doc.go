// Package exporter writes financial summaries to disk.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM for Excel.
// SummaryExporter picks the output format from the file extension:
//
//	.csv   metric/value rows, plus a sibling *_monthly.csv for month series
//	.xlsx  a workbook with Summary and Monthly sheets
//	.json  the summary JSON in canonical key order
//	.md    the Markdown metrics report
//	.html  the rendered HTML report
//
// Example usage:
//
//	exp := exporter.NewSummaryExporter(&cfg.Paths, logger)
//	path, err := exp.Export("acme.xlsx", report.New("Acme", src, summary))
package exporter
