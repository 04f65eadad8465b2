package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgmetrics "github.com/haguru/jiraiya/pkg/metrics"
)

func TestRegisterAPIMetrics(t *testing.T) {
	m := pkgmetrics.NewMetrics("test_service")
	require.NotPanics(t, func() { RegisterAPIMetrics(m) })

	m.IncCounter(SignupRequestsTotal)
	m.IncCounter(LoginRequestsTotal)
	m.IncCounter(LoginRateLimitedTotal)
	m.IncCounter(AuthFailuresTotal)
	m.IncCounterVec(PostOperationsTotal, "create", OutcomeSuccess)
	m.ObserveHistogramVec(PostDurationSeconds, 0.01, "create")
	m.ObserveHistogram(LoginDurationSeconds, 0.2)

	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"test_service_" + SignupRequestsTotal,
		"test_service_" + LoginRequestsTotal,
		"test_service_" + LoginRateLimitedTotal,
		"test_service_" + AuthFailuresTotal,
		"test_service_" + PostOperationsTotal,
		"test_service_" + PostDurationSeconds,
		"test_service_" + LoginDurationSeconds,
		"test_service_" + HTTPRequestsInFlight,
	} {
		assert.True(t, names[want], "missing metric family %s", want)
	}
}

func TestRegisterAPIMetrics_Twice(t *testing.T) {
	m := pkgmetrics.NewMetrics("test_service")
	RegisterAPIMetrics(m)
	assert.Panics(t, func() { RegisterAPIMetrics(m) }, "duplicate registration must not go unnoticed")
}
