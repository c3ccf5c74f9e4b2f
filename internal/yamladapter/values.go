// Package yamladapter loads raw UI value sets from YAML documents of the
// form "variable_name: value". It is the carrier for the values the
// external UI collaborator would normally supply.
package yamladapter

import (
	"fmt"
	"os"

	"github.com/vk/varflow/internal/varvalue"
	"gopkg.in/yaml.v3"
)

// LoadValues reads a YAML file mapping variable names to values and
// classifies each into one of the five value kinds.
func LoadValues(path string) (map[string]varvalue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading values file: %w", err)
	}
	return ParseValues(data)
}

// ParseValues decodes a YAML document into a raw value map.
func ParseValues(data []byte) (map[string]varvalue.Value, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding values: %w", err)
	}

	values := make(map[string]varvalue.Value, len(doc))
	for name, raw := range doc {
		v, err := classify(raw)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}

// classify maps a decoded YAML node onto the variable value model.
func classify(raw any) (varvalue.Value, error) {
	switch v := raw.(type) {
	case int:
		return varvalue.Number(float64(v)), nil
	case int64:
		return varvalue.Number(float64(v)), nil
	case float64:
		return varvalue.Number(v), nil
	case string:
		return varvalue.String(v), nil
	case []any:
		return classifySequence(v)
	case map[string]any:
		members := make(map[string]varvalue.Value, len(v))
		for key, member := range v {
			mv, err := classify(member)
			if err != nil {
				return varvalue.Value{}, fmt.Errorf("table member %q: %w", key, err)
			}
			members[key] = mv
		}
		return varvalue.Table(members), nil
	default:
		return varvalue.Value{}, fmt.Errorf("unsupported YAML value of type %T", raw)
	}
}

func classifySequence(seq []any) (varvalue.Value, error) {
	if len(seq) == 0 {
		return varvalue.Array(nil), nil
	}
	if _, nested := seq[0].([]any); nested {
		rows := make([][]float64, len(seq))
		for i, rawRow := range seq {
			rowSeq, ok := rawRow.([]any)
			if !ok {
				return varvalue.Value{}, fmt.Errorf("matrix row %d is not a sequence", i)
			}
			row, err := numbers(rowSeq)
			if err != nil {
				return varvalue.Value{}, fmt.Errorf("matrix row %d: %w", i, err)
			}
			rows[i] = row
		}
		return varvalue.Matrix(rows), nil
	}
	fs, err := numbers(seq)
	if err != nil {
		return varvalue.Value{}, err
	}
	return varvalue.Array(fs), nil
}

func numbers(seq []any) ([]float64, error) {
	fs := make([]float64, len(seq))
	for i, raw := range seq {
		switch n := raw.(type) {
		case int:
			fs[i] = float64(n)
		case int64:
			fs[i] = float64(n)
		case float64:
			fs[i] = n
		default:
			return nil, fmt.Errorf("element %d is not a number", i)
		}
	}
	return fs, nil
}
