package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics
var (
	// DBQueriesTotal tracks the total number of database queries
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"query_type", "table", "status"},
	)

	// DBQueryDuration tracks the duration of database queries
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of established connections both in use and idle",
		},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle connections",
		},
	)
)

// Refresh loop and upstream metrics
var (
	RefreshCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathercache_refresh_cycles_total",
			Help: "Total number of refresh cycles by outcome",
		},
		[]string{"status"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weathercache_refresh_duration_seconds",
			Help:    "Duration of a full fetch, parse and store cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	// LastRefreshSuccess is the unix time of the last cycle that stored data
	LastRefreshSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weathercache_last_refresh_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful refresh",
		},
	)

	ForecastDaysStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathercache_forecast_days_stored_total",
			Help: "Forecast days written to storage by operation",
		},
		[]string{"operation"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathercache_upstream_requests_total",
			Help: "Requests made to the upstream weather API by outcome",
		},
		[]string{"status"},
	)

	UpstreamRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weathercache_upstream_request_duration_seconds",
			Help:    "Duration of upstream weather API requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathercache_cache_requests_total",
			Help: "Forecast cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)
)

var (
	// AppInfo provides static information about the application
	AppInfo = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weathercache_app_info",
			Help: "Application information (always 1)",
		},
	)

	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weathercache_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppInfo.Set(1)
	AppStartTime.SetToCurrentTime()
}

// RecordDBQuery records a database query execution
func RecordDBQuery(queryType, table string, duration time.Duration, err error) {
	DBQueriesTotal.WithLabelValues(queryType, table, status(err)).Inc()
	DBQueryDuration.WithLabelValues(queryType, table).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(open, inUse, idle int) {
	DBConnectionsOpen.Set(float64(open))
	DBConnectionsInUse.Set(float64(inUse))
	DBConnectionsIdle.Set(float64(idle))
}

// RecordRefresh records the outcome of one refresh cycle
func RecordRefresh(duration time.Duration, err error) {
	RefreshCyclesTotal.WithLabelValues(status(err)).Inc()
	RefreshDuration.Observe(duration.Seconds())
	if err == nil {
		LastRefreshSuccess.SetToCurrentTime()
	}
}

// RecordUpstreamRequest records one call to the upstream API
func RecordUpstreamRequest(duration time.Duration, err error) {
	UpstreamRequestsTotal.WithLabelValues(status(err)).Inc()
	UpstreamRequestDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss for the given backend
func RecordCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(backend, result).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
