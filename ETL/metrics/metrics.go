package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ETLMetrics содержит метрики конвейера. Все методы допускают nil-получатель
type ETLMetrics struct {
	RowsExtracted *prometheus.CounterVec
	RowsDropped   *prometheus.CounterVec
	ValuesFilled  *prometheus.CounterVec
	MartRows      *prometheus.GaugeVec
	LoadFailures  *prometheus.CounterVec
	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
}

// NewETLMetrics создает метрики и регистрирует их в reg
func NewETLMetrics(reg prometheus.Registerer) *ETLMetrics {
	m := &ETLMetrics{
		RowsExtracted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_rows_extracted_total",
				Help: "Total number of raw rows read from the source",
			},
			[]string{"entity"},
		),
		RowsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_rows_dropped_total",
				Help: "Total number of rows removed for missing required fields",
			},
			[]string{"entity"},
		),
		ValuesFilled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_values_filled_total",
				Help: "Total number of null cells replaced by a default value",
			},
			[]string{"entity", "column"},
		),
		MartRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "etl_mart_rows",
				Help: "Number of rows in the mart produced by the last run",
			},
			[]string{"mart"},
		),
		LoadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_load_failures_total",
				Help: "Total number of failed mart loads",
			},
			[]string{"mart"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_runs_total",
				Help: "Total number of ETL runs by final status",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "etl_run_duration_seconds",
				Help:    "Duration of ETL runs in seconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}

	reg.MustRegister(
		m.RowsExtracted,
		m.RowsDropped,
		m.ValuesFilled,
		m.MartRows,
		m.LoadFailures,
		m.Runs,
		m.RunDuration,
	)
	return m
}

// ObserveExtracted учитывает прочитанные строки сущности
func (m *ETLMetrics) ObserveExtracted(entity string, rows int) {
	if m == nil {
		return
	}
	m.RowsExtracted.WithLabelValues(entity).Add(float64(rows))
}

// ObserveDropped учитывает строки, удаленные при очистке
func (m *ETLMetrics) ObserveDropped(entity string, rows int) {
	if m == nil {
		return
	}
	m.RowsDropped.WithLabelValues(entity).Add(float64(rows))
}

// ObserveFilled учитывает заполненные значения столбца
func (m *ETLMetrics) ObserveFilled(entity, column string, values int) {
	if m == nil {
		return
	}
	m.ValuesFilled.WithLabelValues(entity, column).Add(float64(values))
}

// SetMartRows фиксирует размер витрины
func (m *ETLMetrics) SetMartRows(mart string, rows int) {
	if m == nil {
		return
	}
	m.MartRows.WithLabelValues(mart).Set(float64(rows))
}

// ObserveLoadFailure учитывает неудачную загрузку витрины
func (m *ETLMetrics) ObserveLoadFailure(mart string) {
	if m == nil {
		return
	}
	m.LoadFailures.WithLabelValues(mart).Inc()
}

// ObserveRun учитывает завершенный запуск
func (m *ETLMetrics) ObserveRun(status string, seconds float64) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(status).Inc()
	m.RunDuration.Observe(seconds)
}
