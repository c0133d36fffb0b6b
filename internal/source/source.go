// Package source loads project descriptors: the list of compilation units,
// their annotated entities and the raw attribute bags of each annotation.
//
// Descriptors are YAML or CUE. Both decode to the same value shapes the
// annotation processors accept: strings, integers, floats, booleans, maps,
// lists, and annotation.Expression for values that are not literals.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kubegen/cli/internal/annotation"
)

// DefaultDescriptorNames are tried, in order, when a directory is given.
var DefaultDescriptorNames = []string{"kubegen.yaml", "kubegen.yml", "kubegen.cue"}

// ErrNoDescriptor is returned when a directory holds no descriptor.
var ErrNoDescriptor = errors.New("no project descriptor found")

// Project is a loaded descriptor.
type Project struct {
	// Path is the descriptor file.
	Path  string
	Units []Unit
}

// Unit is one compilation unit.
type Unit struct {
	Name string

	// Artifact is the compiled program copied into the image.
	Artifact string

	// SourceRoot is the directory relative file references resolve against.
	// Defaults to the descriptor's directory.
	SourceRoot string

	Entities []Entity
}

// Entity is an annotated declaration.
type Entity struct {
	annotation.Entity

	// Annotations in declaration order.
	Annotations []Annotation
}

// Annotation is one annotation occurrence.
type Annotation struct {
	Name       string
	Attributes annotation.Attributes
}

// AnnotationCount returns the number of annotations in the unit.
func (u Unit) AnnotationCount() int {
	n := 0
	for _, e := range u.Entities {
		n += len(e.Annotations)
	}
	return n
}

// Resolve returns the descriptor path for path, which may be a file or a
// directory containing one of DefaultDescriptorNames.
func Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range DefaultDescriptorNames {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoDescriptor, path)
}

// Load reads the descriptor at path, choosing the decoder by extension.
func Load(path string) (*Project, error) {
	file, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	var p *Project
	switch filepath.Ext(file) {
	case ".cue":
		p, err = ParseCUE(file, data)
	case ".yaml", ".yml":
		p, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported descriptor format %q", filepath.Ext(file))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	p.Path = file
	if err := p.finalize(filepath.Dir(file)); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return p, nil
}

// finalize validates the loaded structure and resolves relative paths
// against dir.
func (p *Project) finalize(dir string) error {
	if len(p.Units) == 0 {
		return errors.New("descriptor declares no units")
	}
	seen := make(map[string]bool, len(p.Units))
	for i := range p.Units {
		u := &p.Units[i]
		if u.Name == "" {
			return fmt.Errorf("units[%d]: name is required", i)
		}
		if seen[u.Name] {
			return fmt.Errorf("units[%d]: duplicate unit %q", i, u.Name)
		}
		seen[u.Name] = true

		if u.SourceRoot == "" {
			u.SourceRoot = dir
		} else if !filepath.IsAbs(u.SourceRoot) {
			u.SourceRoot = filepath.Join(dir, u.SourceRoot)
		}
		if u.Artifact != "" && !filepath.IsAbs(u.Artifact) {
			u.Artifact = filepath.Join(u.SourceRoot, u.Artifact)
		}

		for j, e := range u.Entities {
			if e.Name == "" {
				return fmt.Errorf("unit %s: entities[%d]: name is required", u.Name, j)
			}
			switch e.Kind {
			case annotation.EntityListener, annotation.EntityService, annotation.EntityFunction:
			default:
				return fmt.Errorf("unit %s: entity %s: unknown kind %q", u.Name, e.Name, e.Kind)
			}
		}
	}
	return nil
}
