package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var outputFormat string

var stdout io.Writer = os.Stdout

func validateFormat() error {
	switch outputFormat {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// render prints value as json or yaml, or as the rows returned by table
func render(value any, header []string, table func() [][]string) error {
	switch outputFormat {
	case formatJSON:
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case formatYAML:
		encoder := yaml.NewEncoder(stdout)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(value)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	if len(header) > 0 {
		fmt.Fprintln(w, strings.Join(header, "\t"))
	}
	for _, row := range table() {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func orEmpty(value string) string {
	if value == "" {
		return "(empty)"
	}
	return value
}
