// Package metrics counts points and finished units in Prometheus counters.
package metrics

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/comalice/tennisx"
)

const namespace = "tennis"

// Collector is a tennisx.Recorder backed by Prometheus counters.
type Collector struct {
	points   *prometheus.CounterVec
	finished *prometheus.CounterVec
}

var _ tennisx.Recorder = (*Collector)(nil)

// New registers the tennis counters with reg. Registering twice with the
// same registry fails.
func New(reg prometheus.Registerer) (c *Collector, err error) {
	if reg == nil {
		return nil, errors.New("metrics: nil registerer")
	}
	defer func() {
		// promauto panics on duplicate registration.
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("metrics: %v", r)
		}
	}()
	f := promauto.With(reg)
	return &Collector{
		points: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Points won, by unit kind and player.",
		}, []string{"kind", "player"}),
		finished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_finished_total",
			Help:      "Units won, by unit kind and winning player.",
		}, []string{"kind", "player"}),
	}, nil
}

func (c *Collector) PointWon(kind tennisx.Kind, p *tennisx.Player) {
	c.points.WithLabelValues(string(kind), p.Name()).Inc()
}

func (c *Collector) UnitFinished(kind tennisx.Kind, winner *tennisx.Score) {
	c.finished.WithLabelValues(string(kind), winner.Player().Name()).Inc()
}

// Line is one counter sample.
type Line struct {
	Metric string
	Kind   string
	Player string
	Value  float64
}

func (l Line) String() string {
	return fmt.Sprintf("%s{kind=%q,player=%q} %g", l.Metric, l.Kind, l.Player, l.Value)
}

// Summary gathers the tennis counters from g, sorted by metric, kind and
// player.
func Summary(g prometheus.Gatherer) ([]Line, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("metrics: gather: %w", err)
	}
	var lines []Line
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") || mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			l := Line{Metric: mf.GetName(), Value: m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "kind":
					l.Kind = lp.GetValue()
				case "player":
					l.Player = lp.GetValue()
				}
			}
			lines = append(lines, l)
		}
	}
	slices.SortFunc(lines, func(a, b Line) int {
		return strings.Compare(a.Metric+"\x00"+a.Kind+"\x00"+a.Player, b.Metric+"\x00"+b.Kind+"\x00"+b.Player)
	})
	return lines, nil
}
