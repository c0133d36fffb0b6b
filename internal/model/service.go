package model

// Service is generated for one annotated listener.
type Service struct {
	Meta

	// Listener is the source listener the Service was declared on.
	Listener        string
	Port            int
	TargetPort      int
	PortName        string
	ServiceType     string
	SessionAffinity string

	// Selector is the canonical unit name the Service selects on.
	Selector string
}

// NewService returns a Service with defaults applied.
func NewService(name, listener string) *Service {
	return &Service{
		Meta:        Meta{Name: name},
		Listener:    listener,
		Port:        Unset,
		TargetPort:  Unset,
		ServiceType: ServiceTypeClusterIP,
	}
}

// Ingress exposes one listener's Service outside the cluster.
type Ingress struct {
	Meta

	Listener     string
	Hostname     string
	Path         string
	TargetPath   string
	IngressClass string
	EnableTLS    bool

	// ServiceName and ServicePort are resolved during composition, once the
	// Service for Listener exists.
	ServiceName string
	ServicePort int
}

// DefaultIngressClass is used when the annotation names none.
const DefaultIngressClass = "nginx"

// NewIngress returns an Ingress with defaults applied.
func NewIngress(name, listener string) *Ingress {
	return &Ingress{
		Meta:         Meta{Name: name},
		Listener:     listener,
		Path:         "/",
		IngressClass: DefaultIngressClass,
		ServicePort:  Unset,
	}
}
