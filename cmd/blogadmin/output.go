package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// format returns the requested output format.
func format() string {
	if jsonOutput {
		return "json"
	}
	return strings.ToLower(outputFormat)
}

// emit writes v as JSON or YAML when requested. It returns false for the
// text format, leaving the rendering to the caller.
func emit(w io.Writer, v any) (bool, error) {
	switch format() {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	case "text", "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q", outputFormat)
	}
}

func mustEmit(v any) bool {
	done, err := emit(os.Stdout, v)
	if err != nil {
		fatal("Failed to encode output", err)
	}
	return done
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
