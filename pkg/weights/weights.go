// Package weights orders generated Kubernetes resources. Resources with lower
// weights are written and applied first.
package weights

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Weights for the resource kinds kubegen emits.
const (
	WeightNamespace      = 0
	WeightResourceQuota  = 5
	WeightSecret         = 15
	WeightConfigMap      = 15
	WeightPVC            = 20
	WeightService        = 50
	WeightDeployment     = 100
	WeightKnativeService = 100
	WeightJob            = 110
	WeightCronJob        = 110
	WeightIngress        = 150
	WeightHPA            = 200
	WeightDefault        = 1000
)

// KnativeServiceGVK identifies a Knative Serving service.
var KnativeServiceGVK = schema.GroupVersionKind{Group: "serving.knative.dev", Version: "v1", Kind: "Service"}

var gvkWeights = map[schema.GroupVersionKind]int{
	{Group: "", Version: "v1", Kind: "Namespace"}:             WeightNamespace,
	{Group: "", Version: "v1", Kind: "ResourceQuota"}:         WeightResourceQuota,
	{Group: "", Version: "v1", Kind: "Secret"}:                WeightSecret,
	{Group: "", Version: "v1", Kind: "ConfigMap"}:             WeightConfigMap,
	{Group: "", Version: "v1", Kind: "PersistentVolumeClaim"}: WeightPVC,
	{Group: "", Version: "v1", Kind: "Service"}:               WeightService,

	{Group: "apps", Version: "v1", Kind: "Deployment"}: WeightDeployment,
	KnativeServiceGVK: WeightKnativeService,

	{Group: "batch", Version: "v1", Kind: "Job"}:     WeightJob,
	{Group: "batch", Version: "v1", Kind: "CronJob"}: WeightCronJob,

	{Group: "networking.k8s.io", Version: "v1", Kind: "Ingress"}: WeightIngress,

	{Group: "autoscaling", Version: "v2", Kind: "HorizontalPodAutoscaler"}: WeightHPA,
	{Group: "autoscaling", Version: "v1", Kind: "HorizontalPodAutoscaler"}: WeightHPA,
}

// kindWeights is consulted when the group or version is unknown.
var kindWeights = map[string]int{
	"Namespace":               WeightNamespace,
	"ResourceQuota":           WeightResourceQuota,
	"Secret":                  WeightSecret,
	"ConfigMap":               WeightConfigMap,
	"PersistentVolumeClaim":   WeightPVC,
	"Service":                 WeightService,
	"Deployment":              WeightDeployment,
	"Job":                     WeightJob,
	"CronJob":                 WeightCronJob,
	"Ingress":                 WeightIngress,
	"HorizontalPodAutoscaler": WeightHPA,
}

// GetWeight returns the weight for a GVK.
func GetWeight(gvk schema.GroupVersionKind) int {
	if weight, ok := gvkWeights[gvk]; ok {
		return weight
	}
	if weight, ok := kindWeights[gvk.Kind]; ok {
		return weight
	}
	return WeightDefault
}
