package k8s

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// ConsolePluginGVR is the OpenShift console plugin resource.
var ConsolePluginGVR = schema.GroupVersionResource{
	Group:    "console.openshift.io",
	Version:  "v1",
	Resource: "consoleplugins",
}

// pollInterval is shared by all waits.
var pollInterval = 5 * time.Second

// WaitForDeployment waits for a deployment to become ready.
func (c *Client) WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil
		}
		return isDeploymentReady(deployment), nil
	})
	if err != nil {
		return fmt.Errorf("deployment %s/%s not ready: %w", namespace, name, err)
	}
	return nil
}

// WaitForConsolePlugin waits until the ConsolePlugin resource exists, i.e.
// the console can load the plugin.
func (c *Client) WaitForConsolePlugin(ctx context.Context, name string, timeout time.Duration) error {
	logger := log.FromContext(ctx).WithValues("consolePlugin", name)

	err := wait.PollUntilContextTimeout(ctx, pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		_, err := c.dynamic.Resource(ConsolePluginGVR).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if !apierrors.IsNotFound(err) {
				logger.V(1).Info("console plugin lookup failed", "error", err.Error())
			}
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("console plugin %s not registered: %w", name, err)
	}
	return nil
}

// isDeploymentReady checks if a deployment is ready.
func isDeploymentReady(deployment *appsv1.Deployment) bool {
	desired := int32(1)
	if deployment.Spec.Replicas != nil {
		desired = *deployment.Spec.Replicas
	}
	if deployment.Status.UpdatedReplicas != desired {
		return false
	}
	if deployment.Status.AvailableReplicas != desired {
		return false
	}

	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}

	return false
}
