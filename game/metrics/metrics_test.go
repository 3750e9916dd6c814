package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveReport(t *testing.T) {
	okBefore := testutil.ToFloat64(RobotsDispatched.WithLabelValues("ok"))
	lostBefore := testutil.ToFloat64(RobotsDispatched.WithLabelValues("lost"))
	scentsBefore := testutil.ToFloat64(ScentsLeft)
	suppressedBefore := testutil.ToFloat64(SuppressedMoves)

	ObserveReport(false, false, 2)
	ObserveReport(true, true, 0)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(RobotsDispatched.WithLabelValues("ok")))
	assert.Equal(t, lostBefore+1, testutil.ToFloat64(RobotsDispatched.WithLabelValues("lost")))
	assert.Equal(t, scentsBefore+1, testutil.ToFloat64(ScentsLeft))
	assert.Equal(t, suppressedBefore+2, testutil.ToFloat64(SuppressedMoves))
}

func TestRegistry(t *testing.T) {
	SessionsActive.Set(3)
	RunDuration.WithLabelValues("run").Observe(0.01)

	families, err := Registry.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["marsrobots_sessions_active"])
	assert.True(t, names["marsrobots_run_duration_seconds"])
	assert.Equal(t, float64(3), testutil.ToFloat64(SessionsActive))
}
