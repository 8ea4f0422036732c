package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/clients", "200"))
	RecordHTTPRequest("GET", "/api/clients", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/clients", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(PackageCacheResults.WithLabelValues("hit"))
	misses := testutil.ToFloat64(PackageCacheResults.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(PackageCacheResults.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(PackageCacheResults.WithLabelValues("miss")))
}
