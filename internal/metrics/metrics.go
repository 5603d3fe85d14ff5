// Package metrics exposes Prometheus counters for the polling loop.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cycles counts completed poll cycles across all accounts.
	Cycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redwatch_cycles_total",
		Help: "Total poll cycles executed",
	})
	// PollOutcomes counts cycle outcomes by classification.
	PollOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "redwatch_poll_outcomes_total",
		Help: "Poll cycle outcomes by classification",
	}, []string{"outcome"})
	// TokensFound counts extracted passwords.
	TokensFound = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redwatch_tokens_found_total",
		Help: "Total passwords extracted from posts",
	})
	// AccountsDisabled counts accounts pulled from the rotation pool.
	AccountsDisabled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redwatch_accounts_disabled_total",
		Help: "Total accounts disabled after consecutive failures",
	})
)

func init() {
	prometheus.MustRegister(Cycles, PollOutcomes, TokensFound, AccountsDisabled)
}

// StartServer serves /metrics and /health on addr in the background.
// An empty addr disables the server.
func StartServer(addr string, log *slog.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics server", "addr", addr, "error", err)
		}
	}()
}
