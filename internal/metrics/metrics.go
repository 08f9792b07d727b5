package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts successful order creations.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoprint_orders_created_total",
		Help: "Total number of orders created.",
	})
	// OrderTransitions counts status transitions by target status.
	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoprint_order_transitions_total",
		Help: "Total number of order status transitions by target status.",
	}, []string{"to"})
	// PhotosPurged counts photos removed by the purge sweep.
	PhotosPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoprint_photos_purged_total",
		Help: "Total number of photos purged after retention expiry.",
	})
	// PurgeBytesFreed counts blob bytes reclaimed by the purge sweep.
	PurgeBytesFreed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoprint_purge_bytes_freed_total",
		Help: "Total blob bytes reclaimed by the purge sweep.",
	})
	// PurgeRuns counts purge sweep runs grouped by result.
	PurgeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoprint_purge_runs_total",
		Help: "Total number of purge sweep runs grouped by result.",
	}, []string{"result"})
	// CartsExpired counts carts removed by the idle-cart sweep.
	CartsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoprint_carts_expired_total",
		Help: "Total number of idle carts deleted by the expiry sweep.",
	})
)
