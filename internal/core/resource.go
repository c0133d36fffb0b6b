package core

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
)

// Resource is a single generated Kubernetes object.
type Resource struct {
	Object *unstructured.Unstructured

	// Unit is the compilation unit the resource belongs to.
	Unit string

	// Artifact is the file suffix the resource is written under, e.g. "svc".
	Artifact string
}

// NewResource converts a typed API object into a Resource. The object's kind
// is resolved from the client-go scheme. Server-populated fields (status,
// creationTimestamp) are dropped.
func NewResource(obj runtime.Object, unit, artifact string) (*Resource, error) {
	gvk, err := apiutil.GVKForObject(obj, scheme.Scheme)
	if err != nil {
		return nil, fmt.Errorf("resolving kind: %w", err)
	}
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", gvk.Kind, err)
	}

	u := &unstructured.Unstructured{Object: content}
	u.SetGroupVersionKind(gvk)
	return NewUnstructuredResource(u, unit, artifact), nil
}

// NewUnstructuredResource wraps an object that has no typed Go representation.
func NewUnstructuredResource(obj *unstructured.Unstructured, unit, artifact string) *Resource {
	unstructured.RemoveNestedField(obj.Object, "status")
	pruneTimestamps(obj.Object)
	return &Resource{Object: obj, Unit: unit, Artifact: artifact}
}

// pruneTimestamps removes null creationTimestamp fields left by the converter
// at every nesting level, including pod templates.
func pruneTimestamps(v any) {
	switch t := v.(type) {
	case map[string]any:
		if ts, ok := t["creationTimestamp"]; ok && ts == nil {
			delete(t, "creationTimestamp")
		}
		for _, child := range t {
			pruneTimestamps(child)
		}
	case []any:
		for _, child := range t {
			pruneTimestamps(child)
		}
	}
}

// GVK returns the GroupVersionKind of the resource.
func (r *Resource) GVK() schema.GroupVersionKind {
	return r.Object.GroupVersionKind()
}

// Kind returns the resource kind (e.g., "Deployment").
func (r *Resource) Kind() string {
	return r.Object.GetKind()
}

// Name returns the resource name from metadata.
func (r *Resource) Name() string {
	return r.Object.GetName()
}

// Namespace returns the resource namespace from metadata.
func (r *Resource) Namespace() string {
	return r.Object.GetNamespace()
}

// Labels returns the resource labels.
func (r *Resource) Labels() map[string]string {
	return r.Object.GetLabels()
}
