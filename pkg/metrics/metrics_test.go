package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterValue(t *testing.T) {
	m := Nop()
	m.EnrichmentFailures.WithLabelValues(StepImages).Inc()
	m.EnrichmentFailures.WithLabelValues(StepImages).Inc()
	m.EnrichmentFailures.WithLabelValues(StepTagLink).Inc()

	assert.Equal(t, 2.0, m.CounterValue("portal_content_enrichment_failures_total", map[string]string{"step": StepImages}))
	assert.Equal(t, 1.0, m.CounterValue("portal_content_enrichment_failures_total", map[string]string{"step": StepTagLink}))
	assert.Equal(t, 0.0, m.CounterValue("portal_content_enrichment_failures_total", map[string]string{"step": StepAttachments}))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := Nop()
	m.TagsResolved.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "portal_tags_resolved_total 1"))
}
