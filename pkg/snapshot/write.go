package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format selects how Write renders a snapshot.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists every accepted format.
var Formats = []Format{FormatText, FormatTable, FormatJSON, FormatYAML}

// ParseFormat accepts a format name case-insensitively; "yml" is an alias.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, table, json or yaml)", s)
}

// Write renders the snapshot to w. width only affects the text format.
func (s *Snapshot) Write(w io.Writer, format Format, width int) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, s.Frame(width)+"\n")
		return err
	case FormatTable:
		return s.writeTable(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s.Report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s.Report); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

func (s *Snapshot) writeTable(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Values"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, wr := range s.Widgets {
		table.Append([]string{wr.ID, wr.Title, formatValues(wr.Data)})
	}
	table.Render()

	if len(s.Sources) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	sources := tablewriter.NewWriter(w)
	sources.SetHeader([]string{"Source", "OK", "Latency", "Error"})
	sources.SetAutoWrapText(false)
	sources.SetBorder(false)
	for _, st := range s.Sources {
		ok := "yes"
		if !st.OK {
			ok = "no"
		}
		sources.Append([]string{st.Name, ok, st.Latency, st.Error})
	}
	sources.Render()
	return nil
}

// formatValues flattens a widget report to "k=v" pairs in key order.
func formatValues(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(data[k]))
	}
	return strings.Join(parts, " ")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return humanize.CommafWithDigits(x, 2)
	case int:
		return humanize.Comma(int64(x))
	case int64:
		return humanize.Comma(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	default:
		return fmt.Sprint(x)
	}
}
