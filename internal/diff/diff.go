// Package diff compares freshly rendered documents against the manifests
// already present in a unit's output directory.
package diff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	yamlv3 "gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	"github.com/kubegen/cli/internal/core"
	"github.com/kubegen/cli/internal/output"
)

// Options configures a comparison.
type Options struct {
	// UseColor enables colorized dyff output.
	UseColor bool
}

// ResourceKey identifies a document as kind/namespace/name.
func ResourceKey(obj *unstructured.Unstructured) string {
	return fmt.Sprintf("%s/%s/%s", obj.GetKind(), obj.GetNamespace(), obj.GetName())
}

// Compare diffs desired against the YAML files in dir. A missing directory
// means every desired document is added.
func Compare(desired []*core.Resource, dir string, opts Options) (output.DiffReport, error) {
	report := output.DiffReport{}

	existing, err := LoadDir(dir)
	if err != nil {
		return report, err
	}

	seen := make(map[string]bool, len(desired))
	for _, res := range desired {
		key := ResourceKey(res.Object)
		seen[key] = true

		current, ok := existing[key]
		if !ok {
			report.Added = append(report.Added, key)
			continue
		}
		d, err := compareResources(current, res.Object, opts.UseColor)
		if err != nil {
			return report, fmt.Errorf("comparing %s: %w", key, err)
		}
		if d != "" {
			report.Modified = append(report.Modified, output.ModifiedItem{Name: key, Diff: d})
		}
	}

	for key := range existing {
		if !seen[key] {
			report.Removed = append(report.Removed, key)
		}
	}
	sort.Strings(report.Added)
	sort.Strings(report.Removed)
	sort.Slice(report.Modified, func(i, j int) bool { return report.Modified[i].Name < report.Modified[j].Name })
	return report, nil
}

// LoadDir reads every document of the *.yaml files directly under dir,
// keyed by ResourceKey. Subdirectories (the image context and chart) are
// not read.
func LoadDir(dir string) (map[string]*unstructured.Unstructured, error) {
	out := make(map[string]*unstructured.Unstructured)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		objs, err := decodeDocuments(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		for _, obj := range objs {
			out[ResourceKey(obj)] = obj
		}
	}
	return out, nil
}

// decodeDocuments splits a multi-document stream into objects. Empty
// documents are skipped.
func decodeDocuments(data []byte) ([]*unstructured.Unstructured, error) {
	dec := yamlv3.NewDecoder(bytes.NewReader(data))
	var out []*unstructured.Unstructured
	for {
		var node yamlv3.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(node.Content) == 0 || node.Content[0].Kind != yamlv3.MappingNode {
			continue
		}

		raw, err := yamlv3.Marshal(&node)
		if err != nil {
			return nil, err
		}
		js, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, err
		}
		obj := &unstructured.Unstructured{}
		if err := obj.UnmarshalJSON(js); err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
}

// compareResources returns the rendered diff from current to desired, or an
// empty string when they match.
func compareResources(current, desired *unstructured.Unstructured, useColor bool) (string, error) {
	currentYAML, err := serializeForDiff(current)
	if err != nil {
		return "", fmt.Errorf("serializing existing document: %w", err)
	}
	desiredYAML, err := serializeForDiff(desired)
	if err != nil {
		return "", fmt.Errorf("serializing rendered document: %w", err)
	}
	if bytes.Equal(currentYAML, desiredYAML) {
		return "", nil
	}
	return diffYAML(currentYAML, desiredYAML, useColor)
}

func serializeForDiff(obj *unstructured.Unstructured) ([]byte, error) {
	cp := obj.DeepCopy()
	unstructured.RemoveNestedField(cp.Object, "status")
	unstructured.RemoveNestedField(cp.Object, "metadata", "creationTimestamp")
	return yaml.Marshal(cp.Object)
}

func diffYAML(from, to []byte, useColor bool) (string, error) {
	fromInput, err := parseYAMLInput("existing", from)
	if err != nil {
		return "", fmt.Errorf("parsing existing YAML: %w", err)
	}
	toInput, err := parseYAMLInput("rendered", to)
	if err != nil {
		return "", fmt.Errorf("parsing rendered YAML: %w", err)
	}

	report, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}
	return renderDyffReport(report, useColor)
}

func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

func renderDyffReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer
	w := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := w.WriteReport(&buf); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
