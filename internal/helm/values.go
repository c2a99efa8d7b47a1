package helm

import (
	"fmt"
	"os"

	sigsyaml "sigs.k8s.io/yaml"
)

// Values represents helm chart values.
type Values map[string]any

// Merge deep-merges value maps, later maps taking precedence. Nested maps
// are merged key by key; any other value replaces the previous one.
func Merge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		mergeInto(result, m)
	}
	return result
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := asMap(v)
		dstMap, dstIsMap := asMap(dst[k])
		if srcIsMap && dstIsMap {
			merged := make(map[string]any, len(dstMap))
			mergeInto(merged, dstMap)
			mergeInto(merged, srcMap)
			dst[k] = merged
			continue
		}
		dst[k] = v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Values:
		return m, true
	default:
		return nil, false
	}
}

// ToYAML converts values to YAML bytes.
func (v Values) ToYAML() ([]byte, error) {
	out, err := sigsyaml.Marshal(map[string]any(v))
	if err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}
	return out, nil
}

// FromYAML parses YAML bytes into Values.
func FromYAML(data []byte) (Values, error) {
	values := Values{}
	if err := sigsyaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	return values, nil
}

// LoadValuesFile reads a values file. An empty path yields empty values.
func LoadValuesFile(path string) (Values, error) {
	if path == "" {
		return Values{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file %s: %w", path, err)
	}
	return FromYAML(data)
}
