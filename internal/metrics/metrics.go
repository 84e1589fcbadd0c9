package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoryLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyoa_story_loads_total",
		Help: "Total number of story loads, labelled by status.",
	}, []string{"status"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyoa_validation_failures_total",
		Help: "Total number of rejected stories, labelled by error kind.",
	}, []string{"kind"})

	StoryPages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cyoa_story_pages",
		Help: "Number of pages in the current story snapshot.",
	})

	WinRoutes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cyoa_win_routes",
		Help: "Number of cycle-free winning routes in the current snapshot.",
	})

	RouteEnumerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cyoa_route_enumeration_duration_ms",
		Help:    "Time spent enumerating winning routes in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	ReaderChoices = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyoa_reader_choices_total",
		Help: "Total number of choices entered by readers, labelled by result.",
	}, []string{"result"})
)
