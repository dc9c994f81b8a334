// Package report renders a financial.Summary for people and for prompt
// templates: an escaped JSON payload, a Markdown metrics report and its HTML
// rendering.
package report
