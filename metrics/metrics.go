// Package metrics wires the orchestrator's hot paths into
// prometheus/client_golang, in the shape of the teacher's
// protocol/nova/metrics.go: one named gauge/counter per observable event,
// each registered individually against a caller-supplied
// prometheus.Registerer so the failure of any single registration is
// visible at construction time rather than silently dropped.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Orchestrator groups the counters and gauges the orchestrator package
// updates across audit announcement, ticket generation, and Safrole
// transition calls.
type Orchestrator struct {
	announcementsProduced prometheus.Counter
	announcementsVerified prometheus.Counter
	announcementsRejected prometheus.Counter
	ticketsGenerated      prometheus.Counter
	ticketBatches         prometheus.Counter
	epochTransitions      prometheus.Counter
	winnersMarkers        prometheus.Counter
	ticketAccumulatorSize prometheus.Gauge
}

// NewOrchestrator constructs and registers the orchestrator's metric set
// against registerer. Each metric is registered individually so a single
// collision with a pre-existing collector surfaces as an error naming that
// metric rather than aborting the whole batch silently.
func NewOrchestrator(registerer prometheus.Registerer) (*Orchestrator, error) {
	m := &Orchestrator{
		announcementsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safrole_audit_announcements_produced_total",
			Help: "Tranche-0/tranche-N audit announcements produced by this validator.",
		}),
		announcementsVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safrole_audit_announcements_verified_total",
			Help: "Peer audit announcements that passed signature and evidence verification.",
		}),
		announcementsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safrole_audit_announcements_rejected_total",
			Help: "Peer audit announcements that failed signature or evidence verification.",
		}),
		ticketsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safrole_tickets_generated_total",
			Help: "Individual Safrole ring-VRF tickets generated by this validator.",
		}),
		ticketBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safrole_ticket_batches_generated_total",
			Help: "GenerateTickets calls completed successfully.",
		}),
		epochTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safrole_epoch_transitions_total",
			Help: "Safrole state transitions that crossed an epoch boundary.",
		}),
		winnersMarkers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safrole_winners_markers_total",
			Help: "Safrole state transitions that emitted a Winners marker.",
		}),
		ticketAccumulatorSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "safrole_ticket_accumulator_size",
			Help: "Ticket count currently held in the Safrole state's ticket accumulator.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.announcementsProduced,
		m.announcementsVerified,
		m.announcementsRejected,
		m.ticketsGenerated,
		m.ticketBatches,
		m.epochTransitions,
		m.winnersMarkers,
		m.ticketAccumulatorSize,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Orchestrator) AnnouncementProduced() {
	if m == nil {
		return
	}
	m.announcementsProduced.Inc()
}

func (m *Orchestrator) AnnouncementVerified(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.announcementsVerified.Inc()
		return
	}
	m.announcementsRejected.Inc()
}

func (m *Orchestrator) TicketsGenerated(n int) {
	if m == nil {
		return
	}
	m.ticketBatches.Inc()
	m.ticketsGenerated.Add(float64(n))
}

func (m *Orchestrator) Transitioned(epochTransitioned, winnersMarker bool, accumulatorSize int) {
	if m == nil {
		return
	}
	if epochTransitioned {
		m.epochTransitions.Inc()
	}
	if winnersMarker {
		m.winnersMarkers.Inc()
	}
	m.ticketAccumulatorSize.Set(float64(accumulatorSize))
}
