package lscpu

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownField is returned for a field name that CPU does not have.
var ErrUnknownField = errors.New("unknown field")

// Field is one named value of a CPU record.
type Field struct {
	Name  string // snake_case name, as in the JSON/YAML encoding
	Label string // lscpu report label
	Value any    // string or uint32

	format string
}

// Text renders the value the way the lscpu report does.
func (f Field) Text() string {
	if f.format != "" {
		return fmt.Sprintf(f.format, f.Value)
	}
	return fmt.Sprint(f.Value)
}

type fieldInfo struct {
	index  int
	name   string
	label  string
	format string
}

// cpuFields is derived once from the CPU struct tags.
var cpuFields = func() []fieldInfo {
	t := reflect.TypeOf(CPU{})
	infos := make([]fieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		infos = append(infos, fieldInfo{
			index:  i,
			name:   name,
			label:  sf.Tag.Get("label"),
			format: sf.Tag.Get("format"),
		})
	}
	return infos
}()

// FieldNames returns the field names in report order.
func FieldNames() []string {
	names := make([]string, len(cpuFields))
	for i, fi := range cpuFields {
		names[i] = fi.name
	}
	return names
}

// Fields returns all fields in report order.
func (c CPU) Fields() []Field {
	v := reflect.ValueOf(c)
	fields := make([]Field, len(cpuFields))
	for i, fi := range cpuFields {
		fields[i] = Field{
			Name:   fi.name,
			Label:  fi.label,
			Value:  v.Field(fi.index).Interface(),
			format: fi.format,
		}
	}
	return fields
}

// Field returns the named field.
func (c CPU) Field(name string) (Field, error) {
	for _, f := range c.Fields() {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, errors.Wrap(ErrUnknownField, name)
}

// Map returns the record keyed by field name.
func (c CPU) Map() map[string]any {
	m := make(map[string]any, len(cpuFields))
	for _, f := range c.Fields() {
		m[f.Name] = f.Value
	}
	return m
}

// fieldQueries re-run the decoder behind a single field.
var fieldQueries = map[string]func(Querier) any{
	"architecture":     func(q Querier) any { return GetArchitecture(q) },
	"cpu_op_modes":     func(q Querier) any { return GetOpModes(q) },
	"address_sizes":    func(q Querier) any { return GetAddressSizes(q) },
	"byte_order":       func(Querier) any { return GetByteOrder() },
	"cpu_count":        func(q Querier) any { return GetCPUCount(q) },
	"on_line_cpu":      func(q Querier) any { return GetOnlineCPU(q) },
	"vendor_id":        func(q Querier) any { return GetVendorID(q) },
	"model_name":       func(q Querier) any { return GetModelName(q) },
	"cpu_family":       func(q Querier) any { return GetCPUFamily(q) },
	"cpu_model":        func(q Querier) any { return GetCPUModel(q) },
	"is_hybrid":        func(q Querier) any { return GetHybridFlag(q) },
	"threads_per_core": func(q Querier) any { return GetThreadsPerCore(q) },
	"cores_per_socket": func(q Querier) any { return GetCoresPerSocket(q) },
	"sockets":          func(q Querier) any { return GetSockets(q) },
	"stepping":         func(q Querier) any { return GetStepping(q) },
	"boost_enabled":    func(q Querier) any { return GetBoostEnabled(q) },
}

// Query runs only the decoder for the named field. Results taken this way
// are not guaranteed to agree with an earlier record as a whole.
func Query(q Querier, name string) (Field, error) {
	query, ok := fieldQueries[name]
	if !ok {
		return Field{}, errors.Wrap(ErrUnknownField, name)
	}
	for _, fi := range cpuFields {
		if fi.name == name {
			return Field{Name: fi.name, Label: fi.label, Value: query(q), format: fi.format}, nil
		}
	}
	return Field{}, errors.Wrap(ErrUnknownField, name)
}
