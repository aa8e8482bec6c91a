package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CartOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "store",
		Name:      "cart_operations_total",
		Help:      "Total number of cart operations by type.",
	}, []string{"op"})

	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "store",
		Name:      "orders_created_total",
		Help:      "Total number of orders persisted by checkout.",
	})

	CheckoutFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "store",
		Name:      "checkout_failures_total",
		Help:      "Total number of failed checkout attempts by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(CartOperations, OrdersCreated, CheckoutFailures)
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
