package check

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Print writes the report as indented JSON or as coloured text.
func Print(w io.Writer, r *Report, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	for _, f := range r.Findings {
		where := f.Page
		if where == "" {
			where = "site"
		}
		severityColor(f.Severity).Fprintf(w, "%-7s ", f.Severity)
		fmt.Fprintf(w, "%s [%s] %s", where, f.Rule, f.Message)
		if f.Ref != "" {
			color.New(color.Faint).Fprintf(w, " (%s)", f.Ref)
		}
		fmt.Fprintln(w)
	}

	if n := r.Errors(); n > 0 {
		color.New(color.FgRed, color.Bold).Fprintf(w, "❌ %d pages checked, %d errors\n", r.Pages, n)
		return nil
	}
	color.New(color.FgGreen, color.Bold).Fprintf(w, "✅ %d pages checked, no errors\n", r.Pages)
	return nil
}

func severityColor(s Severity) *color.Color {
	switch s {
	case SeverityError:
		return color.New(color.FgRed)
	case SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
