package model

// ImagePullPolicy values accepted on workload annotations.
const (
	PullIfNotPresent = "IfNotPresent"
	PullAlways       = "Always"
)

// ServiceType values accepted on the Service annotation.
const (
	ServiceTypeClusterIP    = "ClusterIP"
	ServiceTypeNodePort     = "NodePort"
	ServiceTypeLoadBalancer = "LoadBalancer"
	ServiceTypeExternalName = "ExternalName"
)

// RestartPolicy values accepted on the Job annotation.
const (
	RestartAlways    = "Always"
	RestartNever     = "Never"
	RestartOnFailure = "OnFailure"
)

// Valid enum members, in the order they are reported in errors.
var (
	ImagePullPolicies = []string{PullIfNotPresent, PullAlways}
	ServiceTypes      = []string{ServiceTypeClusterIP, ServiceTypeNodePort, ServiceTypeLoadBalancer, ServiceTypeExternalName}
	RestartPolicies   = []string{RestartAlways, RestartNever, RestartOnFailure}
)
