package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	keymint "github.com/keymint/keymint"
	"github.com/keymint/keymint/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() keymint.MetricsSnapshot
	AuditDropped() uint64
}

// PrometheusExporter renders keymint metrics in Prometheus text exposition
// format. It reads snapshots on demand; no background goroutine.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter creates an exporter reading from the given
// [keymint.Manager].
func NewPrometheusExporter(manager *keymint.Manager) *PrometheusExporter {
	return &PrometheusExporter{source: manager}
}

// NewPrometheusExporterFromSource creates an exporter from a custom source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler returns an http.Handler that serves the current metrics.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current metrics in Prometheus text exposition format.
// Series with no samples yet are still rendered at zero so dashboards see
// every metric from the first scrape.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()

	var b strings.Builder

	for _, def := range internaldefs.CounterDefs {
		writeHeader(&b, def.Name, def.Help, "counter")
		b.WriteString(def.Name)
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(snapshot.Counters[def.ID], 10))
		b.WriteByte('\n')
	}

	for _, def := range internaldefs.HistogramDefs {
		name := def.Name + "_seconds"
		writeHeader(&b, name, def.Help, "histogram")

		cumulative := internaldefs.CumulativeBuckets(
			internaldefs.NormalizeBuckets(snapshot.Histograms[def.ID]),
		)
		for i, le := range bucketBoundsSeconds {
			b.WriteString(name)
			b.WriteString(`_bucket{le="`)
			b.WriteString(le)
			b.WriteString(`"} `)
			b.WriteString(strconv.FormatUint(cumulative[i], 10))
			b.WriteByte('\n')
		}
		b.WriteString(name)
		b.WriteString("_count ")
		b.WriteString(strconv.FormatUint(cumulative[len(cumulative)-1], 10))
		b.WriteByte('\n')
	}

	writeHeader(&b, "keymint_audit_dropped_total", "Audit events dropped by dispatcher backpressure.", "counter")
	b.WriteString("keymint_audit_dropped_total ")
	b.WriteString(strconv.FormatUint(dropped, 10))
	b.WriteByte('\n')

	return b.String()
}

var bucketBoundsSeconds = [8]string{
	"0.000001", "0.00001", "0.0001", "0.001", "0.01", "0.1", "1", "+Inf",
}

func writeHeader(b *strings.Builder, name, help, metricType string) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(metricType)
	b.WriteByte('\n')
}
