// cmd/report-server/routes.go
package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type handlers struct {
	report   http.Handler
	price    http.Handler
	feedback http.Handler
}

// newAppMux serves the report and store routes on the public address.
func newAppMux(h handlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/report.pdf", h.report)
	mux.Handle("/convertToPdf", h.report)
	mux.Handle("/updateData", h.price)
	mux.Handle("/submit-feedback", h.feedback)
	return mux
}

// newOpsMux serves health, readiness and metrics on the metrics address.
func newOpsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
