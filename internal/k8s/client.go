// Package k8s provides the cluster client used to create CronTabs and to
// prepare test environments.
package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	crontabv1 "github.com/imamik/crontab-plugin/api/v1"
)

// Options selects the kubeconfig used to reach the cluster.
type Options struct {
	// KubeconfigPath overrides the default loading rules (KUBECONFIG, ~/.kube/config).
	KubeconfigPath string
	// Context overrides the kubeconfig's current context.
	Context string
	// Namespace overrides the context's namespace.
	Namespace string
}

// Client wraps the Kubernetes API operations of the plugin.
type Client struct {
	ctrl       client.Client
	clientset  kubernetes.Interface
	dynamic    dynamic.Interface
	restConfig *rest.Config
	namespace  string
}

// NewClient creates a client from kubeconfig loading rules. The active
// namespace is the override, else the context's namespace, else "default".
func NewClient(opts Options) (*Client, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if opts.KubeconfigPath != "" {
		rules.ExplicitPath = opts.KubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: opts.Context}
	overrides.Context.Namespace = opts.Namespace

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	config, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	namespace, _, err := clientConfig.Namespace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve namespace: %w", err)
	}

	return NewClientForConfig(config, namespace)
}

// NewClientFromBytes creates a client from kubeconfig bytes.
func NewClientFromBytes(kubeconfigData []byte) (*Client, error) {
	clientConfig, err := clientcmd.NewClientConfigFromBytes(kubeconfigData)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig from bytes: %w", err)
	}

	config, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig from bytes: %w", err)
	}

	namespace, _, err := clientConfig.Namespace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve namespace: %w", err)
	}

	return NewClientForConfig(config, namespace)
}

// NewClientForConfig creates a client for a REST config.
func NewClientForConfig(config *rest.Config, namespace string) (*Client, error) {
	ctrlClient, err := client.New(config, client.Options{Scheme: crontabv1.Scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create controller-runtime client: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	c := newClient(ctrlClient, clientset, dynamicClient, namespace)
	c.restConfig = config
	return c, nil
}

func newClient(ctrlClient client.Client, clientset kubernetes.Interface, dynamicClient dynamic.Interface, namespace string) *Client {
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}
	return &Client{
		ctrl:      ctrlClient,
		clientset: clientset,
		dynamic:   dynamicClient,
		namespace: namespace,
	}
}

// Namespace returns the active namespace.
func (c *Client) Namespace() string {
	return c.namespace
}

// RESTConfig returns the REST config the client was built from, or nil for
// clients built from fakes.
func (c *Client) RESTConfig() *rest.Config {
	return c.restConfig
}

// Create creates a CronTab. The object is updated with the server's
// response, including a generated name.
func (c *Client) Create(ctx context.Context, ct *crontabv1.CronTab) error {
	if err := c.ctrl.Create(ctx, ct); err != nil {
		return fmt.Errorf("failed to create CronTab %s/%s: %w", ct.Namespace, nameOrGenerateName(ct), err)
	}
	log.FromContext(ctx).V(1).Info("created CronTab", "namespace", ct.Namespace, "name", ct.Name)
	return nil
}

// GetCronTab fetches a CronTab.
func (c *Client) GetCronTab(ctx context.Context, namespace, name string) (*crontabv1.CronTab, error) {
	ct := &crontabv1.CronTab{}
	if err := c.ctrl.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, ct); err != nil {
		return nil, fmt.Errorf("failed to get CronTab %s/%s: %w", namespace, name, err)
	}
	return ct, nil
}

// EnsureNamespace creates a namespace unless it already exists.
func (c *Client) EnsureNamespace(ctx context.Context, name string) error {
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	_, err := c.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return nil
}

// DeleteNamespace deletes a namespace. A missing namespace is not an error.
func (c *Client) DeleteNamespace(ctx context.Context, name string) error {
	err := c.clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}
	return nil
}

func nameOrGenerateName(ct *crontabv1.CronTab) string {
	if ct.Name != "" {
		return ct.Name
	}
	return ct.GenerateName
}
