package handler

import (
	"context"
	"fmt"
	"slices"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/kubegen/cli/internal/core"
	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

// nginx ingress controller annotations.
const (
	annotationRewriteTarget  = "nginx.ingress.kubernetes.io/rewrite-target"
	annotationSSLPassthrough = "nginx.ingress.kubernetes.io/ssl-passthrough"
)

// ServiceHandler writes one Service per annotated listener and records each
// target port on the Deployment.
type ServiceHandler struct{}

func (ServiceHandler) Name() string { return "kubernetes:Service" }

func (ServiceHandler) Applies(u *registry.Unit) bool { return len(u.Services()) > 0 }

func (ServiceHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	d := hc.Unit.Deployment()
	for _, s := range hc.Unit.Services() {
		svc := &corev1.Service{
			ObjectMeta: hc.objectMeta(s.Meta),
			Spec: corev1.ServiceSpec{
				Type:     corev1.ServiceType(s.ServiceType),
				Selector: map[string]string{core.LabelApp: s.Selector},
				Ports: []corev1.ServicePort{{
					Name:       s.PortName,
					Protocol:   corev1.ProtocolTCP,
					Port:       int32(s.Port),
					TargetPort: intstr.FromInt32(int32(s.TargetPort)),
				}},
			},
		}
		if s.SessionAffinity != "" {
			svc.Spec.SessionAffinity = corev1.ServiceAffinity(s.SessionAffinity)
		}

		if err := hc.emit(svc, ArtifactService); err != nil {
			return oerrors.WrapArtifact(s.Name, err)
		}
		if d != nil && !slices.Contains(d.Ports, s.TargetPort) {
			d.AddPort(s.TargetPort)
		}
		hc.logger().Debug("generated service", "name", s.Name, "port", s.Port)
	}
	return nil
}

// IngressHandler fronts a listener's Service. The Service must already be
// registered for the same listener.
type IngressHandler struct{}

func (IngressHandler) Name() string { return "kubernetes:Ingress" }

func (IngressHandler) Applies(u *registry.Unit) bool { return len(u.Ingresses()) > 0 }

func (IngressHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	for _, in := range hc.Unit.Ingresses() {
		svc := hc.Unit.ServiceFor(in.Listener)
		if svc == nil {
			return oerrors.WrapArtifact(in.Name, oerrors.NewNotFoundError(fmt.Sprintf(
				"@kubernetes:Ingress annotation on listener %q must follow a @kubernetes:Service annotation", in.Listener)))
		}
		in.ServiceName = svc.Name
		in.ServicePort = svc.Port
		if hc.Unit.ListenerHasSecrets(in.Listener) {
			in.EnableTLS = true
		}

		if err := hc.emit(hc.ingress(in), ArtifactIngress); err != nil {
			return oerrors.WrapArtifact(in.Name, err)
		}
		hc.logger().Debug("generated ingress", "name", in.Name, "host", in.Hostname, "service", in.ServiceName)
	}
	return nil
}

func (hc *Context) ingress(in *model.Ingress) *networkingv1.Ingress {
	meta := hc.objectMeta(in.Meta)
	if in.IngressClass == model.DefaultIngressClass {
		if in.TargetPath != "" {
			setAnnotation(&meta.Annotations, annotationRewriteTarget, in.TargetPath)
		}
		if in.EnableTLS {
			setAnnotation(&meta.Annotations, annotationSSLPassthrough, "true")
		}
	}

	pathType := networkingv1.PathTypePrefix
	class := in.IngressClass
	ing := &networkingv1.Ingress{
		ObjectMeta: meta,
		Spec: networkingv1.IngressSpec{
			IngressClassName: &class,
			Rules: []networkingv1.IngressRule{{
				Host: in.Hostname,
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{
							Path:     in.Path,
							PathType: &pathType,
							Backend: networkingv1.IngressBackend{
								Service: &networkingv1.IngressServiceBackend{
									Name: in.ServiceName,
									Port: networkingv1.ServiceBackendPort{Number: int32(in.ServicePort)},
								},
							},
						}},
					},
				},
			}},
		},
	}
	if in.EnableTLS {
		ing.Spec.TLS = []networkingv1.IngressTLS{{Hosts: []string{in.Hostname}}}
	}
	return ing
}

func setAnnotation(m *map[string]string, key, value string) {
	if *m == nil {
		*m = make(map[string]string)
	}
	(*m)[key] = value
}
