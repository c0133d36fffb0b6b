package annotation

import (
	"fmt"

	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

type serviceProcessor struct{}

func (serviceProcessor) Name() string { return Service }

func (serviceProcessor) Process(unit *registry.Unit, entity Entity, attrs Attributes) error {
	if !entity.IsListener() {
		return oerrors.NewConfigError(Service, "", fmt.Sprintf("annotation is only supported on listeners, not %s %q", entity.Kind, entity.Name))
	}

	s := model.NewService(normalize(entity.Name)+"-svc", entity.Name)
	fs := merge(
		metaFields(&s.Meta),
		fields{
			"serviceType":     setEnum(&s.ServiceType, model.ServiceTypes),
			"port":            setPort(&s.Port),
			"targetPort":      setPort(&s.TargetPort),
			"portName":        setString(&s.PortName),
			"sessionAffinity": setEnum(&s.SessionAffinity, []string{"None", "ClientIP"}),
		},
	)
	if err := decodeRecord(Service, "", attrs, fs); err != nil {
		return err
	}

	if entity.Port > 0 {
		if s.Port == model.Unset {
			s.Port = entity.Port
		}
		if s.TargetPort == model.Unset {
			s.TargetPort = entity.Port
		}
	}
	if s.Port == model.Unset {
		return oerrors.NewConfigError(Service, "port", fmt.Sprintf("unable to determine port for listener %q", entity.Name))
	}
	if s.TargetPort == model.Unset {
		s.TargetPort = s.Port
	}
	s.Selector = unit.Name

	unit.AddService(s)
	return nil
}

type ingressProcessor struct{}

func (ingressProcessor) Name() string { return Ingress }

func (ingressProcessor) Process(unit *registry.Unit, entity Entity, attrs Attributes) error {
	if !entity.IsListener() {
		return oerrors.NewConfigError(Ingress, "", fmt.Sprintf("annotation is only supported on listeners, not %s %q", entity.Kind, entity.Name))
	}

	listener := normalize(entity.Name)
	in := model.NewIngress(listener+"-ingress", entity.Name)
	in.Hostname = listener + ".com"
	fs := merge(
		metaFields(&in.Meta),
		fields{
			"hostname":     setString(&in.Hostname),
			"path":         setString(&in.Path),
			"targetPath":   setString(&in.TargetPath),
			"ingressClass": setString(&in.IngressClass),
			"enableTLS":    setBool(&in.EnableTLS),
		},
	)
	if err := decodeRecord(Ingress, "", attrs, fs); err != nil {
		return err
	}

	unit.AddIngress(in)
	return nil
}
