package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "citymap"

// Registry holds every citymap metric; /metrics serves it.
var Registry = prometheus.NewRegistry()

// AppInfo is always 1; the build information lives in its labels.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date", "host"},
)

// EventsServed counts list items returned by the events handler.
var EventsServed = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_served_total",
		Help:      "Total number of event items returned by the events listing",
	},
)

// EventsListRequests counts handler outcomes by status code and applied filters.
var EventsListRequests = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_list_requests_total",
		Help:      "Total number of events handler invocations by outcome",
	},
	[]string{"status", "category_filter", "search_filter"},
)

var runtimeOnce sync.Once

// Init registers runtime collectors and records build information. host is
// "http" or "lambda". Safe to call more than once.
func Init(version, commit, buildDate, host string) {
	runtimeOnce.Do(func() {
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
	AppInfo.WithLabelValues(version, commit, buildDate, host).Set(1)
}
