package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/propertycalc/internal/report"
)

// Output formats for commands that print results.
const (
	outputTable = "table"
	outputJSON  = "json"
)

func checkOutput(format string) error {
	if format != outputTable && format != outputJSON {
		return eris.Errorf("unsupported output format %q (want table or json)", format)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

// formatLines writes report lines grouped under their section headers.
func formatLines(out io.Writer, lines []report.Line) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	section := ""
	for _, l := range lines {
		if l.Section != section {
			if section != "" {
				_, _ = fmt.Fprintln(w)
			}
			section = l.Section
			_, _ = fmt.Fprintf(w, "%s\n", section)
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", l.Label, l.Value)
	}
	_ = w.Flush()
}

// formatPairs writes label/value rows in order.
func formatPairs(out io.Writer, pairs [][2]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, p := range pairs {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", p[0], p[1])
	}
	_ = w.Flush()
}
