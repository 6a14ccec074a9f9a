package lscpu

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Entry represents one cpuid call result.
type Entry struct {
	Leaf    uint32 `json:"leaf" yaml:"leaf"`
	Subleaf uint32 `json:"subleaf" yaml:"subleaf"`
	EAX     uint32 `json:"eax" yaml:"eax"`
	EBX     uint32 `json:"ebx" yaml:"ebx"`
	ECX     uint32 `json:"ecx" yaml:"ecx"`
	EDX     uint32 `json:"edx" yaml:"edx"`
}

// Data holds a captured register dump. It implements Querier, so a capture
// taken on one machine can be decoded on another.
type Data struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Bounds on the capture walk; a corrupt max-leaf value must not spin for 2^32 calls.
const (
	maxStandardLeaves = 0x40
	maxExtendedLeaves = 0x40
	maxSubleaves      = 0x40
)

// indexedLeaves select a different record per subleaf. Every other leaf
// ignores ECX, so a replay answers them from the subleaf 0 entry.
var indexedLeaves = map[uint32]bool{
	LeafCacheParams:    true,
	LeafStructFeatures: true,
	LeafTopology:       true,
	0x0D:               true,
	0x1F:               true,
	0x8000001D:         true,
}

// CPUID returns the captured registers for leaf/subleaf, or zeros if the
// capture does not contain them.
func (d Data) CPUID(leaf, subleaf uint32) (a, b, c, dx uint32) {
	fallback := -1
	for i, e := range d.Entries {
		if e.Leaf != leaf {
			continue
		}
		if e.Subleaf == subleaf {
			return e.EAX, e.EBX, e.ECX, e.EDX
		}
		if e.Subleaf == 0 && !indexedLeaves[leaf] {
			fallback = i
		}
	}
	if fallback >= 0 {
		e := d.Entries[fallback]
		return e.EAX, e.EBX, e.ECX, e.EDX
	}
	return 0, 0, 0, 0
}

func (d *Data) add(leaf, subleaf uint32, a, b, c, dx uint32) {
	d.Entries = append(d.Entries, Entry{
		Leaf:    leaf,
		Subleaf: subleaf,
		EAX:     a,
		EBX:     b,
		ECX:     c,
		EDX:     dx,
	})
}

// CaptureData traverses the standard and extended CPUID ranges of q.
func CaptureData(q Querier) Data {
	var data Data

	maxStandard, maxExtended := GetMaxFunctions(q)
	if maxStandard > maxStandardLeaves {
		slog.Debug("clamping standard leaf range", slog.Int("reported", int(maxStandard)))
		maxStandard = maxStandardLeaves
	}
	for leaf := uint32(0); leaf <= maxStandard; leaf++ {
		switch leaf {
		case LeafCacheParams:
			for subleaf := uint32(0); subleaf < maxSubleaves; subleaf++ {
				a, b, c, d := q.CPUID(leaf, subleaf)
				// stop on cache type 0 (null descriptor)
				if subleaf > 0 && a&0x1F == 0 {
					break
				}
				data.add(leaf, subleaf, a, b, c, d)
			}
		case LeafStructFeatures:
			a, b, c, d := q.CPUID(leaf, 0)
			data.add(leaf, 0, a, b, c, d)
			for subleaf := uint32(1); subleaf <= a && subleaf < maxSubleaves; subleaf++ {
				sa, sb, sc, sd := q.CPUID(leaf, subleaf)
				data.add(leaf, subleaf, sa, sb, sc, sd)
			}
		case LeafTopology:
			for subleaf := uint32(0); subleaf < maxSubleaves; subleaf++ {
				a, b, c, d := q.CPUID(leaf, subleaf)
				// level type 0 ends the enumeration
				if subleaf > 0 && (c>>8)&0xFF == 0 {
					break
				}
				data.add(leaf, subleaf, a, b, c, d)
			}
		default:
			a, b, c, d := q.CPUID(leaf, 0)
			data.add(leaf, 0, a, b, c, d)
		}
	}

	if maxExtended < LeafExtMax {
		// no extended range; record the probe so a replay sees the same answer
		a, b, c, d := q.CPUID(LeafExtMax, 0)
		data.add(LeafExtMax, 0, a, b, c, d)
		return data
	}
	if maxExtended-LeafExtMax > maxExtendedLeaves {
		slog.Debug("clamping extended leaf range", slog.Int("reported", int(maxExtended)))
		maxExtended = LeafExtMax + maxExtendedLeaves
	}
	for leaf := LeafExtMax; leaf <= maxExtended; leaf++ {
		a, b, c, d := q.CPUID(leaf, 0)
		data.add(leaf, 0, a, b, c, d)
	}

	return data
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// WriteData writes a capture to filename, as YAML for .yaml/.yml files and JSON otherwise.
func WriteData(filename string, data Data) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create capture file")
	}
	defer file.Close()

	if isYAML(filename) {
		encoder := yaml.NewEncoder(file)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return errors.Wrapf(err, "failed to encode %s", filename)
		}
		return errors.Wrap(encoder.Close(), "failed to flush yaml encoder")
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return errors.Wrapf(err, "failed to encode %s", filename)
	}
	return nil
}

// DataFromFile reads a capture written by WriteData.
func DataFromFile(filename string) (Data, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Data{}, errors.Wrap(err, "failed to open capture file")
	}
	defer file.Close()

	var data Data
	if isYAML(filename) {
		err = yaml.NewDecoder(file).Decode(&data)
	} else {
		err = json.NewDecoder(file).Decode(&data)
	}
	if err != nil {
		return Data{}, errors.Wrapf(err, "failed to decode %s", filename)
	}
	return data, nil
}
