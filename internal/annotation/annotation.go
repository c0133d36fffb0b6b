// Package annotation turns the literal attribute bags attached to source
// entities into model records held by a registry unit.
//
// Each annotation kind has one processor. Processors decode every attribute
// through an explicit field table, so an unrecognized key is always an
// error, never a silent fall-through.
package annotation

import (
	"fmt"
	"sort"

	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/registry"
)

// Annotation names.
const (
	Deployment            = "kubernetes:Deployment"
	Service               = "kubernetes:Service"
	Ingress               = "kubernetes:Ingress"
	Secret                = "kubernetes:Secret"
	ConfigMap             = "kubernetes:ConfigMap"
	PersistentVolumeClaim = "kubernetes:PersistentVolumeClaim"
	Job                   = "kubernetes:Job"
	HPA                   = "kubernetes:HPA"
	ResourceQuota         = "kubernetes:ResourceQuota"
	KnativeService        = "knative:Service"
)

// EntityKind is the kind of source declaration an annotation is attached to.
type EntityKind string

const (
	// EntityListener is a network-accepting endpoint.
	EntityListener EntityKind = "listener"
	// EntityService is a source-level service bound to a listener.
	EntityService EntityKind = "service"
	// EntityFunction is a function, usually the program entry point.
	EntityFunction EntityKind = "function"
)

// Entity identifies the annotated declaration.
type Entity struct {
	Kind EntityKind
	Name string

	// Port is the listener port when the host compiler could determine it,
	// zero otherwise.
	Port int
}

// IsListener reports whether the entity accepts network traffic.
func (e Entity) IsListener() bool {
	return e.Kind == EntityListener || e.Kind == EntityService
}

// Attributes is the key to literal-value bag of one annotation occurrence.
// Values are strings, integers, floats, booleans, nested maps, lists, or an
// Expression the host compiler could not reduce to a literal.
type Attributes map[string]any

// Expression is an annotation value that is not a literal. Processors reject
// it with "unable to parse value".
type Expression struct {
	Text string
}

func (e Expression) String() string {
	return e.Text
}

// Processor consumes one annotation kind.
type Processor interface {
	// Name returns the annotation name the processor handles.
	Name() string

	// Process validates attrs and populates the unit's models.
	Process(unit *registry.Unit, entity Entity, attrs Attributes) error
}

// Set dispatches annotations to their processors.
type Set struct {
	processors map[string]Processor
}

// NewSet returns a Set holding every built-in processor.
func NewSet() *Set {
	s := &Set{processors: make(map[string]Processor)}
	for _, p := range []Processor{
		deploymentProcessor{},
		serviceProcessor{},
		ingressProcessor{},
		secretProcessor{},
		configMapProcessor{},
		volumeClaimProcessor{},
		jobProcessor{},
		hpaProcessor{},
		resourceQuotaProcessor{},
		knativeProcessor{},
	} {
		s.processors[p.Name()] = p
	}
	return s
}

// Names returns the supported annotation names, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.processors))
	for name := range s.processors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Process runs the processor registered for name.
func (s *Set) Process(unit *registry.Unit, entity Entity, name string, attrs Attributes) error {
	p, ok := s.processors[name]
	if !ok {
		return oerrors.NewConfigError(name, "", fmt.Sprintf("unknown annotation on %s %q", entity.Kind, entity.Name))
	}
	if attrs == nil {
		attrs = Attributes{}
	}
	return p.Process(unit, entity, attrs)
}
