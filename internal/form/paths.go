package form

import (
	"fmt"

	crontabv1 "github.com/imamik/crontab-plugin/api/v1"
)

// ListPath returns the console path of the CronTab list in namespace.
func ListPath(namespace string) string {
	return fmt.Sprintf("/k8s/ns/%s/%s~%s~%s", namespace, crontabv1.Group, crontabv1.Version, crontabv1.Kind)
}

// DetailPath returns the console path of a single CronTab.
func DetailPath(namespace, name string) string {
	return ListPath(namespace) + "/" + name
}
