package util

import (
	"net/http"
	// The pprof package does not provide a function for registering
	// its endpoints against an arbitrary mux. Load it to force
	// registration against the default mux, so we can forward
	// traffic to that mux instead.
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAdministrativeHTTPEndpoints registers HTTP endpoints that
// are used by long running processes to expose metrics, health and
// profiling information. The readiness endpoint reports success once
// isReady returns true.
func RegisterAdministrativeHTTPEndpoints(router *mux.Router, isReady func() bool) {
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/-/healthy", func(http.ResponseWriter, *http.Request) {})
	router.HandleFunc("/-/ready", func(w http.ResponseWriter, _ *http.Request) {
		if isReady() {
			w.WriteHeader(http.StatusOK)
		} else {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
}
