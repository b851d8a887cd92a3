package prometheus

import (
	"regexp"

	"github.com/hashgraph/hedera-services-sub126/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_model/go"
)

type nameFilteringGatherer struct {
	base        prometheus.Gatherer
	namePattern *regexp.Regexp
}

// NewNameFilteringGatherer creates a decorator for Gatherer that only
// returns metric families whose name matches a regular expression.
// This makes it possible to expose the metrics of a single component
// (e.g., the LongList chunk counters) on a separate HTTP endpoint.
func NewNameFilteringGatherer(base prometheus.Gatherer, namePattern *regexp.Regexp) prometheus.Gatherer {
	return &nameFilteringGatherer{
		base:        base,
		namePattern: namePattern,
	}
}

func (g *nameFilteringGatherer) Gather() ([]*io_prometheus_client.MetricFamily, error) {
	families, err := g.base.Gather()
	if err != nil {
		return nil, util.StatusWrap(err, "Failed to gather metrics")
	}
	// Filter in place, as the slice returned by the base gatherer
	// is not shared.
	filteredFamilies := families[:0]
	for _, family := range families {
		if g.namePattern.MatchString(family.GetName()) {
			filteredFamilies = append(filteredFamilies, family)
		}
	}
	return filteredFamilies, nil
}

// LongListMetricsPattern matches the names of all metrics that are
// exported by package longlist.
var LongListMetricsPattern = regexp.MustCompile("^merkledb_long_list_")
