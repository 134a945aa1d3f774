package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, Register(reg, nil))
	require.NoError(t, Register(reg, nil))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ScoredUsers.WithLabelValues("discovery", OutcomeUpdated))
	ScoredUsers.WithLabelValues("discovery", OutcomeUpdated).Add(3)

	assert.Equal(t, before+3, testutil.ToFloat64(ScoredUsers.WithLabelValues("discovery", OutcomeUpdated)))
}

func TestGather(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg, nil))

	InteractionsRecorded.WithLabelValues("LIKE").Inc()

	n, err := testutil.GatherAndCount(reg, "telofundi_interactions_recorded_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}
