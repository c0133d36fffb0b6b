// Package core defines the Kubernetes-facing types shared by handlers and
// output writers.
package core

// Label keys applied to generated resources.
const (
	// LabelApp selects the pods of a unit. Value is the unit name.
	LabelApp = "app"

	// LabelManagedBy is the standard Kubernetes label indicating the manager.
	LabelManagedBy = "app.kubernetes.io/managed-by"

	// LabelManagedByValue is the value for the LabelManagedBy label.
	LabelManagedByValue = "kubegen"
)

// UnitLabels returns the labels every resource of a unit carries.
func UnitLabels(unit string) map[string]string {
	return map[string]string{
		LabelApp:       unit,
		LabelManagedBy: LabelManagedByValue,
	}
}

// SelectorLabels returns the pod selector for a unit.
func SelectorLabels(unit string) map[string]string {
	return map[string]string{LabelApp: unit}
}
