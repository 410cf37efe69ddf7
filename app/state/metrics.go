package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK    = "ok"
	resultError = "error"
	resultStale = "stale"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postbrowser_fetch_total",
		Help: "Tier fetches settled by the browser, by outcome",
	}, []string{"tier", "result"})

	mutationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postbrowser_mutation_total",
		Help: "Comment mutations settled by the browser, by outcome",
	}, []string{"kind", "result"})
)
