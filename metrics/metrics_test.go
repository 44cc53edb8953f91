package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewOrchestratorRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewOrchestrator(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 8)
}

func TestNewOrchestratorRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewOrchestrator(reg)
	require.NoError(t, err)

	_, err = NewOrchestrator(reg)
	require.Error(t, err)
}

func TestNilOrchestratorMethodsAreNoOps(t *testing.T) {
	var m *Orchestrator
	require.NotPanics(t, func() {
		m.AnnouncementProduced()
		m.AnnouncementVerified(true)
		m.AnnouncementVerified(false)
		m.TicketsGenerated(3)
		m.Transitioned(true, true, 5)
	})
}

func TestTransitionedUpdatesAccumulatorGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewOrchestrator(reg)
	require.NoError(t, err)

	m.Transitioned(false, false, 7)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "safrole_ticket_accumulator_size" {
			found = true
			require.Equal(t, float64(7), f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	require.True(t, found)
}
