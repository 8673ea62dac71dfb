package host

import (
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ledger"

type metrics struct {
	invocations *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Number of contract invocations by resulting state.",
		}, []string{"contract", "method", "state"}),
	}
}

func (m *metrics) register(r prometheus.Registerer) {
	r.MustRegister(m.invocations)
}

func (m *metrics) observe(contract util.Uint160, method string, st vmstate.State) {
	m.invocations.WithLabelValues(contract.StringLE(), method, st.String()).Inc()
}
