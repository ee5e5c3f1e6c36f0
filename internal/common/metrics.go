package common

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartMetricsServer exposes /metrics for the duration of a run. A batch
// invocation normally has no listener at all; returns nil when port is 0.
func StartMetricsServer(port int) *http.Server {
	if port == 0 {
		return nil
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	return srv
}
