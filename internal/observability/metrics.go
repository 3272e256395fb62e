// Package observability holds the Prometheus metrics for an import run.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the import counters. A nil *Metrics records nothing.
type Metrics struct {
	PagesProcessed   prometheus.Counter
	ProductsUpserted prometheus.Counter
	ProductsSkipped  prometheus.Counter
	AssetsUploaded   prometheus.Counter
	AssetsFailed     prometheus.Counter
	LastCheckpoint   prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates the metrics and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		PagesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogsync_pages_processed_total",
			Help: "Pages parsed, synced and checkpointed",
		}),
		ProductsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogsync_products_upserted_total",
			Help: "Products written to the table store",
		}),
		ProductsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogsync_products_skipped_total",
			Help: "Pages with no product code, not upserted",
		}),
		AssetsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogsync_assets_uploaded_total",
			Help: "Images uploaded to object storage",
		}),
		AssetsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogsync_assets_failed_total",
			Help: "Embedded images skipped because they could not be normalized",
		}),
		LastCheckpoint: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalogsync_last_checkpoint_page",
			Help: "Last page number written to the checkpoint",
		}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.PagesProcessed,
		m.ProductsUpserted,
		m.ProductsSkipped,
		m.AssetsUploaded,
		m.AssetsFailed,
		m.LastCheckpoint,
	)
	return m
}

// PageDone records one completed page.
func (m *Metrics) PageDone(page int, upserted bool, uploaded, failed int) {
	if m == nil {
		return
	}
	m.PagesProcessed.Inc()
	if upserted {
		m.ProductsUpserted.Inc()
	} else {
		m.ProductsSkipped.Inc()
	}
	m.AssetsUploaded.Add(float64(uploaded))
	m.AssetsFailed.Add(float64(failed))
	m.LastCheckpoint.Set(float64(page))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
