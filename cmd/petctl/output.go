package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/petadoption/webclient/internal/config"
	"github.com/petadoption/webclient/internal/models"
	"gopkg.in/yaml.v3"
)

// printer renders command results as a table, JSON or YAML
type printer struct {
	out    io.Writer
	format string
}

// print writes v as JSON or YAML, or calls table for the table format
func (p printer) print(v any, table func(w io.Writer)) error {
	switch p.format {
	case config.OutputJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json output: %w", err)
		}
		return nil
	case config.OutputYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml output: %w", err)
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func row(w io.Writer, cells ...any) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell(c))
	}
	fmt.Fprintln(w)
}

// cell formats a value for a table column. Nested values are shown as JSON.
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	case models.Status:
		return cell(t.Label("-"))
	case fmt.Stringer:
		return cell(t.String())
	case int, int64, float64, bool:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
