package model

import "k8s.io/apimachinery/pkg/api/resource"

// Secret is a mounted Secret. Data values are raw bytes; they are base64
// encoded when the document is serialized.
type Secret struct {
	Meta

	MountPath string
	ReadOnly  bool
	Data      map[string][]byte

	// ConfigFile marks a Secret holding exactly one externally supplied
	// configuration file.
	ConfigFile bool
}

// NewSecret returns a Secret with defaults applied.
func NewSecret(name string) *Secret {
	return &Secret{
		Meta:     Meta{Name: name},
		ReadOnly: true,
		Data:     make(map[string][]byte),
	}
}

// ConfigMap is a mounted ConfigMap.
type ConfigMap struct {
	Meta

	MountPath   string
	ReadOnly    bool
	DefaultMode int
	Data        map[string]string

	// ConfigFile marks a ConfigMap holding exactly one externally supplied
	// configuration file.
	ConfigFile bool
}

// NewConfigMap returns a ConfigMap with defaults applied.
func NewConfigMap(name string) *ConfigMap {
	return &ConfigMap{
		Meta:        Meta{Name: name},
		ReadOnly:    true,
		DefaultMode: Unset,
		Data:        make(map[string]string),
	}
}

// DefaultAccessMode is the claim access mode when none is given.
const DefaultAccessMode = "ReadWriteOnce"

// PersistentVolumeClaim is a mounted volume claim.
type PersistentVolumeClaim struct {
	Meta

	MountPath  string
	ReadOnly   bool
	AccessMode string
	Size       resource.Quantity
}

// NewPersistentVolumeClaim returns a claim with defaults applied.
func NewPersistentVolumeClaim(name string) *PersistentVolumeClaim {
	return &PersistentVolumeClaim{
		Meta:       Meta{Name: name},
		AccessMode: DefaultAccessMode,
	}
}
