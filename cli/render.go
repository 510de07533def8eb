package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/engine"
)

// renderReport prints a human-readable view of a validation report:
// per-record findings first, then the summary block.
func renderReport(w io.Writer, report *engine.Report) {
	for _, result := range report.Results {
		if len(result.Violations) == 0 {
			continue
		}

		_, _ = fmt.Fprintln(w)
		if result.IsValid {
			printWarning(w, fmt.Sprintf("%s has warnings", result.Ref))
		} else {
			printError(w, fmt.Sprintf("%s is invalid", result.Ref))
		}

		for _, v := range result.Violations {
			symbol := errorStyle.Render(errorSymbol)
			if v.Severity == engine.SeverityWarning {
				symbol = warningStyle.Render(warningSymbol)
			}
			_, _ = fmt.Fprintf(w, "  %s %s %s\n",
				symbol,
				dimStyle.Render(fmt.Sprintf("[%s]", v.Rule)),
				v.Message,
			)
		}
	}

	_, _ = fmt.Fprintln(w)
	renderSummary(w, report.Summary)
}

// renderSummary prints the aggregate counters and the per-rule breakdown.
func renderSummary(w io.Writer, summary engine.Summary) {
	if summary.InvalidCount > 0 {
		printError(w, fmt.Sprintf("%d of %d invoices invalid", summary.InvalidCount, summary.Total))
	} else {
		printSuccess(w, fmt.Sprintf("All %d invoices valid", summary.Total))
	}

	rows := [][2]string{
		{"Total invoices", fmt.Sprintf("%d", summary.Total)},
		{"Valid", fmt.Sprintf("%d", summary.ValidCount)},
		{"Invalid", fmt.Sprintf("%d", summary.InvalidCount)},
		{"With warnings", fmt.Sprintf("%d", summary.WithWarnings)},
		{"Errors", fmt.Sprintf("%d", summary.ErrorCount)},
		{"Warnings", fmt.Sprintf("%d", summary.WarningCount)},
		{"Duplicate groups", fmt.Sprintf("%d", summary.DuplicateGroups)},
	}
	renderTable(w, rows)

	if len(summary.ErrorCounts) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Errors by rule:")
		renderTable(w, countRows(summary.ErrorCounts))
	}
	if len(summary.WarningCounts) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Warnings by rule:")
		renderTable(w, countRows(summary.WarningCounts))
	}
}

// countRows flattens a "rule: field" counter map into sorted table rows.
func countRows(counts map[string]int) [][2]string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][2]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, [2]string{key, fmt.Sprintf("%d", counts[key])})
	}
	return rows
}

// renderTable prints two-column rows with the second column aligned.
// Widths are measured with runewidth so names containing wide characters
// stay aligned.
func renderTable(w io.Writer, rows [][2]string) {
	width := 0
	for _, row := range rows {
		if l := runewidth.StringWidth(row[0]); l > width {
			width = l
		}
	}

	for _, row := range rows {
		padding := strings.Repeat(" ", width-runewidth.StringWidth(row[0]))
		_, _ = fmt.Fprintf(w, "  %s%s  %s\n", dimStyle.Render(row[0]), padding, row[1])
	}
}
