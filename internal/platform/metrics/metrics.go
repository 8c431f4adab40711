// Package metrics holds the prometheus counters slinger services report to.
//
// A nil *Metrics is valid and records nothing, so services can be built
// without a registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "slinger"

// Unlock results.
const (
	UnlockOK                = "ok"
	UnlockInvalidPassphrase = "invalid_passphrase"
	UnlockCorrupted         = "corrupted"
	UnlockNotFound          = "not_found"
	UnlockThrottled         = "throttled"
)

// Parse results.
const (
	ParseOK            = "ok"
	ParseMalformed     = "malformed"
	ParseUnknownSender = "unknown_sender"
	ParseDecryption    = "decryption"
	ParseSignature     = "signature"
	ParseError         = "error"
)

type Metrics struct {
	IdentityGenerated *prometheus.CounterVec
	Unlocks           *prometheus.CounterVec
	PacketsBuilt      prometheus.Counter
	PacketsParsed     *prometheus.CounterVec
}

// New creates the counters and registers them with reg when reg is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IdentityGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_generated_total",
			Help:      "Identity key pairs generated, by role.",
		}, []string{"role"}),
		Unlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlock_total",
			Help:      "Private key unlock attempts, by result.",
		}, []string{"result"}),
		PacketsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_built_total",
			Help:      "Packets sealed for a recipient.",
		}),
		PacketsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_parsed_total",
			Help:      "Packets parsed, by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.IdentityGenerated, m.Unlocks, m.PacketsBuilt, m.PacketsParsed)
	}
	return m
}

func (m *Metrics) KeyGenerated(role string) {
	if m == nil {
		return
	}
	m.IdentityGenerated.WithLabelValues(role).Inc()
}

func (m *Metrics) Unlock(result string) {
	if m == nil {
		return
	}
	m.Unlocks.WithLabelValues(result).Inc()
}

func (m *Metrics) PacketBuilt() {
	if m == nil {
		return
	}
	m.PacketsBuilt.Inc()
}

func (m *Metrics) PacketParsed(result string) {
	if m == nil {
		return
	}
	m.PacketsParsed.WithLabelValues(result).Inc()
}
