package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	models "idive/internal/domain/models/script"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHistory(w io.Writer, entries []models.HistoryEntry, format string) error {
	switch format {
	case "json":
		return printJSON(w, entries)
	case "table":
	default:
		return unknownFormat(format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSOURCE\tCREATED\tID\tPREVIEW")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.Version, e.Source, e.CreatedAt.Format(time.RFC3339), e.ID, oneLine(e.Content, 48))
	}
	return tw.Flush()
}

func printEntry(w io.Writer, e *models.HistoryEntry, format string) error {
	switch format {
	case "json":
		return printJSON(w, e)
	case "table":
	default:
		return unknownFormat(format)
	}

	fmt.Fprintf(w, "id:       %s\n", e.ID)
	fmt.Fprintf(w, "script:   %s\n", e.ScriptID)
	fmt.Fprintf(w, "version:  %d\n", e.Version)
	fmt.Fprintf(w, "source:   %s\n", e.Source)
	fmt.Fprintf(w, "created:  %s by %s\n", e.CreatedAt.Format(time.RFC3339), e.CreatedBy)

	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %v\n", k, e.Metadata[k])
	}

	fmt.Fprintf(w, "\n%s\n", e.Content)
	return nil
}

func printScript(w io.Writer, s *models.Script, format string) error {
	switch format {
	case "json":
		return printJSON(w, s)
	case "table":
	default:
		return unknownFormat(format)
	}

	fmt.Fprintf(w, "script %s now at version %d (%s)\n", s.ID, s.Version, s.Language)
	return nil
}

// oneLine flattens text for a table cell and cuts it at max runes
func oneLine(text string, max int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= max {
		return flat
	}
	return string(runes[:max-1]) + "…"
}
