package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveEnrichment(t *testing.T) {
	before := testutil.ToFloat64(Enrichments.WithLabelValues("organization_not_found"))

	ObserveEnrichment("organization_not_found", 120*time.Millisecond)
	ObserveEnrichment("organization_not_found", 80*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(Enrichments.WithLabelValues("organization_not_found")))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(EnrichmentDuration), 1)
}
