package sources

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testClientConfig() ClientConfig {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return ClientConfig{
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Logger:     log,
	}
}

// newRouteServer serves fixed bodies keyed by path; unknown paths 404.
func newRouteServer(t *testing.T, routes map[string]string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func assertScoreInRange(t *testing.T, label string, s *float64) {
	t.Helper()
	if s != nil && (*s < 0 || *s > 10) {
		t.Errorf("%s: averageScore %v outside [0, 10]", label, *s)
	}
}
