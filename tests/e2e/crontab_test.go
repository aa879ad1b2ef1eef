//go:build e2e

package e2e

import (
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prometheus/client_golang/prometheus/testutil"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	crontabv1 "github.com/imamik/crontab-plugin/api/v1"
	"github.com/imamik/crontab-plugin/internal/form"
)

const (
	pollInterval = 2 * time.Second
	pollTimeout  = time.Minute
)

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
	backs int
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Back() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.backs++
}

func (n *recordingNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

var _ = Describe("CronTab creation", Ordered, func() {
	var namespace string

	BeforeAll(func() {
		namespace = fmt.Sprintf("crontab-e2e-%d", time.Now().Unix())

		By("creating namespace " + namespace)
		Expect(client.EnsureNamespace(ctx, namespace)).To(Succeed())
	})

	AfterAll(func() {
		By("deleting namespace " + namespace)
		Expect(client.DeleteNamespace(ctx, namespace)).To(Succeed())
	})

	newForm := func(yamlEditor bool) (*form.Form, *recordingNavigator) {
		nav := &recordingNavigator{}
		f, err := form.New(form.Options{
			Namespace:  namespace,
			Creator:    client,
			Navigator:  nav,
			YAMLEditor: yamlEditor,
		})
		Expect(err).NotTo(HaveOccurred())
		return f, nav
	}

	It("creates a CronTab from the form and opens its detail view", func() {
		f, nav := newForm(false)
		f.SetName("e2e-form")
		f.SetCronSpec("*/5 * * * *")
		f.SetImage("busybox")
		f.IncrementReplicas()
		f.IncrementReplicas()
		Expect(f.CanSubmit()).To(BeTrue())

		Expect(f.Submit(ctx)).To(Succeed())
		Expect(nav.last()).To(Equal(form.DetailPath(namespace, "e2e-form")))

		Eventually(func(g Gomega) {
			ct, err := client.GetCronTab(ctx, namespace, "e2e-form")
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(ct.Spec.CronSpec).To(Equal("*/5 * * * *"))
			g.Expect(ct.Spec.Image).To(Equal("busybox"))
			g.Expect(ct.Spec.Replicas).To(Equal(2))
		}, pollTimeout, pollInterval).Should(Succeed())
	})

	It("creates a CronTab from YAML and opens the list view", func() {
		f, nav := newForm(true)
		mode, err := f.ToggleView()
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).To(Equal(form.ModeYAML))

		f.SetYAML(fmt.Sprintf(`apiVersion: %s
kind: %s
metadata:
  name: e2e-yaml
spec:
  cronSpec: "@hourly"
  image: alpine
  replicas: 1
`, crontabv1.APIGroupVersion, crontabv1.Kind))

		Expect(f.SubmitYAML(ctx)).To(Succeed())
		Expect(nav.last()).To(Equal(form.ListPath(namespace)))

		Eventually(func(g Gomega) {
			ct, err := client.GetCronTab(ctx, namespace, "e2e-yaml")
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(ct.Namespace).To(Equal(namespace))
			g.Expect(ct.Spec.Image).To(Equal("alpine"))
		}, pollTimeout, pollInterval).Should(Succeed())
	})

	It("reports a duplicate name as a create error", func() {
		f, nav := newForm(false)
		f.SetName("e2e-form")
		f.SetCronSpec("@daily")
		f.SetImage("busybox")

		err := f.Submit(ctx)

		var cerr *form.CreateError
		Expect(err).To(BeAssignableToTypeOf(cerr))
		Expect(apierrors.IsAlreadyExists(err)).To(BeTrue())
		Expect(f.State().Error).To(HavePrefix("Error creating CronTab:"))
		Expect(f.Loading()).To(BeFalse())
		Expect(nav.last()).To(BeEmpty())
	})

	It("rejects YAML without a spec before contacting the cluster", func() {
		f, nav := newForm(true)
		f.SetYAML("metadata:\n  name: e2e-nospec\n")

		Expect(f.SubmitYAML(ctx)).To(MatchError(form.ErrMissingSpec))
		Expect(f.State().Error).To(Equal("Invalid YAML: YAML must include spec"))
		Expect(nav.last()).To(BeEmpty())

		_, err := client.GetCronTab(ctx, namespace, "e2e-nospec")
		Expect(apierrors.IsNotFound(err)).To(BeTrue())
	})

	It("counts every submission by mode and result", func() {
		series, err := testutil.GatherAndCount(metrics.Registry, "crontab_form_submissions_total")
		Expect(err).NotTo(HaveOccurred())
		// form/created, yaml/created, form/failed, yaml/invalid
		Expect(series).To(Equal(4))
	})
})
