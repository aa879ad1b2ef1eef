package helm

import (
	"fmt"

	"helm.sh/helm/v3/pkg/strvals"
)

// ParseSetValues merges --set style "key=value" entries into a values map.
func ParseSetValues(sets []string) (map[string]interface{}, error) {
	values := map[string]interface{}{}
	for _, s := range sets {
		if err := strvals.ParseInto(s, values); err != nil {
			return nil, fmt.Errorf("failed to parse --set %q: %w", s, err)
		}
	}
	return values, nil
}
