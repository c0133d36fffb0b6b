package output

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/kubegen/cli/internal/core"
)

// Sink receives generated resources.
type Sink interface {
	Write(res *core.Resource) error
}

// FileSink writes each resource into the unit's output directory. Resources
// sharing a file name are appended as additional YAML documents.
type FileSink struct {
	// Dir is the unit output directory.
	Dir string

	// SingleYAML writes every resource to <unit>.yaml.
	SingleYAML bool

	mu      sync.Mutex
	written []string
}

// NewFileSink returns a FileSink rooted at dir.
func NewFileSink(dir string, singleYAML bool) *FileSink {
	return &FileSink{Dir: dir, SingleYAML: singleYAML}
}

// FileName returns the file a resource is written to, relative to Dir.
func (s *FileSink) FileName(res *core.Resource) string {
	unit := sanitizeName(res.Unit)
	if s.SingleYAML {
		return unit + ".yaml"
	}
	return unit + "_" + sanitizeName(res.Artifact) + ".yaml"
}

// Write appends res to its file, creating the directory and file as needed.
func (s *FileSink) Write(res *core.Resource) error {
	data, err := EncodeYAML(res)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	name := s.FileName(res)
	path := filepath.Join(s.Dir, name)
	if err := appendDocument(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if !slices.Contains(s.written, name) {
		s.written = append(s.written, name)
	}
	Debug("wrote resource", "kind", res.Kind(), "name", res.Name(), "file", path)
	return nil
}

// Files returns the file names written so far, in first-write order.
func (s *FileSink) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.written...)
}

func appendDocument(path string, doc []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() > 0 {
		if _, err := f.WriteString("---\n"); err != nil {
			return err
		}
	}
	_, err = f.Write(doc)
	return err
}

// MemorySink collects resources without touching the filesystem.
type MemorySink struct {
	mu        sync.Mutex
	resources []*core.Resource
}

// Write records res.
func (s *MemorySink) Write(res *core.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, res)
	return nil
}

// Resources returns the collected resources in write order.
func (s *MemorySink) Resources() []*core.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.Resource(nil), s.resources...)
}

// sanitizeName makes a name safe for use in filenames.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "",
		"<", "",
		">", "",
		"|", "-",
	)
	return replacer.Replace(name)
}
