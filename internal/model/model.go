// Package model holds the per-unit deployment records populated by the
// annotation processors and read by the artifact handlers.
//
// Records are created with defaults the first time their annotation is seen
// and are mutated additively afterwards. Handlers treat them as read-only
// except for the documented feedback loops (ports, config-file arguments).
package model

import "sort"

// Unset marks an integer field that was not configured, distinguishing it
// from a field explicitly configured to zero.
const Unset = -1

// Meta is shared by every record.
type Meta struct {
	Name        string
	Labels      map[string]string
	Annotations map[string]string
}

// AddLabel sets a label, allocating the map on first use.
func (m *Meta) AddLabel(key, value string) {
	if m.Labels == nil {
		m.Labels = make(map[string]string)
	}
	m.Labels[key] = value
}

// AddAnnotation sets a metadata annotation.
func (m *Meta) AddAnnotation(key, value string) {
	if m.Annotations == nil {
		m.Annotations = make(map[string]string)
	}
	m.Annotations[key] = value
}

// MergeLabels copies labels into the record without overwriting existing keys.
func (m *Meta) MergeLabels(labels map[string]string) {
	for k, v := range labels {
		if _, exists := m.Labels[k]; !exists {
			m.AddLabel(k, v)
		}
	}
}

// SortedKeys returns the keys of a string map in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
