package pag

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports resource counts and document cache statistics.
type Collector struct {
	p *process

	files     *prometheus.Desc
	surfaces  *prometheus.Desc
	documents *prometheus.Desc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
}

// NewCollector returns a collector for the process-wide pag state.
//
// Example:
//
//	prometheus.MustRegister(pag.NewCollector())
func NewCollector() *Collector {
	return newCollector(proc)
}

func newCollector(p *process) *Collector {
	return &Collector{
		p: p,
		files: prometheus.NewDesc("pag_files_live",
			"Files created and not yet released.", nil, nil),
		surfaces: prometheus.NewDesc("pag_surfaces_live",
			"Offscreen surfaces created and not yet released.", nil, nil),
		documents: prometheus.NewDesc("pag_documents_cached",
			"Parsed documents held by the path cache.", nil, nil),
		hits: prometheus.NewDesc("pag_document_cache_hits_total",
			"Path loads served by an already parsed document.", nil, nil),
		misses: prometheus.NewDesc("pag_document_cache_misses_total",
			"Path loads that parsed a document.", nil, nil),
		evictions: prometheus.NewDesc("pag_document_cache_evictions_total",
			"Documents evicted after their last file was released.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.files
	ch <- c.surfaces
	ch <- c.documents
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.p.paths.Stats()
	ch <- prometheus.MustNewConstMetric(c.files, prometheus.GaugeValue, float64(c.p.liveFiles.Load()))
	ch <- prometheus.MustNewConstMetric(c.surfaces, prometheus.GaugeValue, float64(c.p.liveSurfaces.Load()))
	ch <- prometheus.MustNewConstMetric(c.documents, prometheus.GaugeValue, float64(st.Entries))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(st.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(st.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(st.Evictions))
}

var _ prometheus.Collector = (*Collector)(nil)
