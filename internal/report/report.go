// Package report renders a CPU record in the output formats of the lscpu command.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/earentir/lscpu"
	"github.com/earentir/lscpu/internal/exporter"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatYAML       = "yaml"
	FormatXLSX       = "xlsx"
	FormatPrometheus = "prometheus"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatXLSX, FormatPrometheus}

// Options control Render.
type Options struct {
	Format string
	Fields []string // empty means all fields
	Color  bool     // text format only
}

// labelWidth matches lscpu.CPU.String.
const labelWidth = 26

// Render writes cpu to w.
func Render(w io.Writer, cpu lscpu.CPU, opts Options) error {
	fields, err := SelectFields(cpu, opts.Fields)
	if err != nil {
		return err
	}
	switch opts.Format {
	case FormatText, "":
		return renderText(w, fields, opts.Color)
	case FormatJSON:
		return renderJSON(w, cpu, fields, len(opts.Fields) > 0)
	case FormatYAML:
		return renderYAML(w, cpu, fields, len(opts.Fields) > 0)
	case FormatXLSX:
		return renderXlsx(w, fields)
	case FormatPrometheus:
		if len(opts.Fields) > 0 {
			return errors.New("field selection is not supported by the prometheus format")
		}
		return exporter.WriteText(w, exporter.NewCollector(func() lscpu.CPU { return cpu }))
	default:
		return errors.Errorf("unknown format %q, expected one of: %s", opts.Format, strings.Join(Formats, ", "))
	}
}

// SelectFields returns the named fields of cpu in report order. Unknown names are an error.
func SelectFields(cpu lscpu.CPU, names []string) ([]lscpu.Field, error) {
	all := cpu.Fields()
	if len(names) == 0 {
		return all, nil
	}
	wanted := mapset.NewSet(names...)
	unknown := wanted.Difference(mapset.NewSet(lscpu.FieldNames()...))
	if unknown.Cardinality() > 0 {
		bad := unknown.ToSlice()
		slices.Sort(bad)
		return nil, errors.Errorf("unknown field(s): %s", strings.Join(bad, ", "))
	}
	selected := make([]lscpu.Field, 0, wanted.Cardinality())
	for _, f := range all {
		if wanted.Contains(f.Name) {
			selected = append(selected, f)
		}
	}
	return selected, nil
}

func renderText(w io.Writer, fields []lscpu.Field, colored bool) error {
	label := color.New(color.FgCyan, color.Bold)
	if colored {
		label.EnableColor()
	} else {
		label.DisableColor()
	}
	for _, f := range fields {
		name := f.Label + ":"
		padding := strings.Repeat(" ", max(labelWidth-len(name), 0))
		if _, err := fmt.Fprintf(w, "%s%s%s\n", label.Sprint(name), padding, f.Text()); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
	}
	return nil
}

func fieldMap(fields []lscpu.Field) map[string]any {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}

func renderJSON(w io.Writer, cpu lscpu.CPU, fields []lscpu.Field, filtered bool) error {
	var v any = cpu
	if filtered {
		v = fieldMap(fields)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal to JSON")
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return errors.Wrap(err, "failed to write report")
}

func renderYAML(w io.Writer, cpu lscpu.CPU, fields []lscpu.Field, filtered bool) error {
	var v any = cpu
	if filtered {
		v = fieldMap(fields)
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal to YAML")
	}
	_, err = w.Write(out)
	return errors.Wrap(err, "failed to write report")
}
