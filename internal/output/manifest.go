package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kubegen/cli/internal/core"
	"github.com/kubegen/cli/pkg/weights"
)

// ManifestOptions controls manifest output formatting.
type ManifestOptions struct {
	// Format specifies output format: "yaml" or "json"
	Format Format
	// Writer is the output destination
	Writer io.Writer
}

// WriteManifests writes resources to the writer in the specified format.
// Resources are sorted by weight for consistent output.
func WriteManifests(resources []*core.Resource, opts ManifestOptions) error {
	if len(resources) == 0 {
		return nil
	}

	sorted := append([]*core.Resource(nil), resources...)
	SortResources(sorted)

	switch opts.Format {
	case FormatJSON:
		return writeJSON(sorted, opts.Writer)
	case FormatYAML, "":
		return writeYAML(sorted, opts.Writer)
	}
	return fmt.Errorf("format %s not supported for manifest output", opts.Format)
}

// SortResources sorts resources by weight, then unit, then name.
func SortResources(resources []*core.Resource) {
	sort.SliceStable(resources, func(i, j int) bool {
		wi := weights.GetWeight(resources[i].GVK())
		wj := weights.GetWeight(resources[j].GVK())
		if wi != wj {
			return wi < wj
		}
		if resources[i].Unit != resources[j].Unit {
			return resources[i].Unit < resources[j].Unit
		}
		return resources[i].Name() < resources[j].Name()
	})
}

// writeYAML writes resources as YAML documents separated by ---.
// The yaml.v3 encoder adds document separators between documents.
func writeYAML(resources []*core.Resource, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	for _, res := range resources {
		if err := encoder.Encode(res.Object.Object); err != nil {
			return fmt.Errorf("encoding resource %s/%s: %w", res.Kind(), res.Name(), err)
		}
	}

	return encoder.Close()
}

// writeJSON writes resources as a JSON array.
func writeJSON(resources []*core.Resource, w io.Writer) error {
	objects := make([]map[string]any, len(resources))
	for i, res := range resources {
		objects[i] = res.Object.Object
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(objects); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// EncodeYAML renders a single resource as one YAML document without a
// leading separator.
func EncodeYAML(res *core.Resource) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(res.Object.Object); err != nil {
		return nil, fmt.Errorf("encoding resource %s/%s: %w", res.Kind(), res.Name(), err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
