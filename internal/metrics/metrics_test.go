package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFetch(t *testing.T) {
	c := NewCollector()

	c.ObserveFetch("-ace", time.Second, nil)
	c.ObserveFetch("-ace", time.Second, errors.New("boom"))
	c.ObserveFetch("", time.Second, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("-ace", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("-ace", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("numbered", "ok")))
}

func TestObserveSnapshot(t *testing.T) {
	c := NewCollector()
	at := time.Unix(1700000000, 0)

	c.ObserveSnapshot("-g", 12, at)
	c.ObserveDecodeError("-g")

	assert.Equal(t, 12.0, testutil.ToFloat64(c.Entities.WithLabelValues("-g")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(c.LastUpdate.WithLabelValues("-g")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DecodeErrors.WithLabelValues("-g")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveFetch("-g", time.Second, nil)
		c.ObserveDecodeError("-g")
		c.ObserveSnapshot("-g", 1, time.Now())
	})
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.ObserveFetch("-l", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "nexttrain_feed_fetches_total")
}
