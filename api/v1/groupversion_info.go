// Package v1 contains API Schema definitions for the stable.example.com v1 API group
// +kubebuilder:object:generate=true
// +groupName=stable.example.com
package v1

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

const (
	// Group is the API group of the CronTab resource
	Group = "stable.example.com"
	// Version is the API version of the CronTab resource
	Version = "v1"
	// Kind is the kind of the CronTab resource
	Kind = "CronTab"
	// Resource is the plural resource name served by the API server
	Resource = "crontabs"
	// APIGroupVersion is the apiVersion field value of a CronTab object
	APIGroupVersion = Group + "/" + Version

	// PluginName is the console plugin name, also used as Helm release and namespace
	PluginName = "crontab-plugin"
)

var (
	// GroupVersion is group version used to register these objects
	GroupVersion = schema.GroupVersion{Group: Group, Version: Version}

	// GroupVersionKind identifies the CronTab kind
	GroupVersionKind = GroupVersion.WithKind(Kind)

	// GroupVersionResource identifies the CronTab resource
	GroupVersionResource = GroupVersion.WithResource(Resource)

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the types in this group-version to the given scheme
	AddToScheme = SchemeBuilder.AddToScheme

	// Scheme is the runtime scheme containing the registered types
	Scheme = runtime.NewScheme()
)

func init() {
	SchemeBuilder.Register(&CronTab{}, &CronTabList{})

	_ = clientgoscheme.AddToScheme(Scheme)
	_ = AddToScheme(Scheme)
}
