package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CronTabSpec defines the desired state of a CronTab.
type CronTabSpec struct {
	// CronSpec is the schedule on which the job runs (e.g., */5 * * * *)
	CronSpec string `json:"cronSpec"`

	// Image is the container image executed by the CronTab
	Image string `json:"image"`

	// Replicas is the desired number of instances
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:default=0
	// +optional
	Replicas int `json:"replicas"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced,shortName=ct

// CronTab is the Schema for the crontabs API.
type CronTab struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec CronTabSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// CronTabList contains a list of CronTab.
type CronTabList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CronTab `json:"items"`
}

// NewCronTab returns a CronTab with its TypeMeta populated.
func NewCronTab(namespace, name string, spec CronTabSpec) *CronTab {
	return &CronTab{
		TypeMeta: metav1.TypeMeta{
			APIVersion: APIGroupVersion,
			Kind:       Kind,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Spec: spec,
	}
}
