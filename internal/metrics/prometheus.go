package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the sports ingestion and notification worker

var (
	// Schedule page fetches
	ScrapeCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_scrape_calls_total",
			Help: "Total number of schedule page fetches",
		},
		[]string{"sport", "status"},
	)

	ScrapeCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "school_scrape_call_duration_seconds",
			Help:    "Duration of schedule page fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sport"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "school_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "school_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "school_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Ingestion metrics
	IngestionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_ingestion_runs_total",
			Help: "Total number of sports ingestion runs",
		},
		[]string{"status"},
	)

	IngestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "school_ingestion_duration_seconds",
			Help:    "Duration of sports ingestion runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	SportParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_sport_parses_total",
			Help: "Total number of per-sport parse attempts",
		},
		[]string{"sport", "status"},
	)

	ScheduledGamesIngested = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "school_scheduled_games",
			Help: "Scheduled games stored by the latest ingestion run",
		},
		[]string{"sport"},
	)

	GameResultsIngested = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "school_game_results",
			Help: "Game results stored by the latest ingestion run",
		},
		[]string{"sport"},
	)

	LastSuccessfulIngestion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "school_last_successful_ingestion_timestamp",
			Help: "Timestamp of the last ingestion run where every sport parsed",
		},
	)

	// Notification metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_notifications_total",
			Help: "Total number of push submissions",
		},
		[]string{"gateway", "status"},
	)

	NotificationRecipients = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "school_notification_recipients_total",
			Help: "Total number of device tokens addressed by push submissions",
		},
	)

	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"},
	)

	TokensPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "school_push_tokens_pruned_total",
			Help: "Total number of clients deleted after push feedback",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "school_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordScrape records a schedule page fetch
func RecordScrape(sport, status string, duration float64) {
	ScrapeCallsTotal.WithLabelValues(sport, status).Inc()
	ScrapeCallDuration.WithLabelValues(sport).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordIngestion records a full ingestion run
func RecordIngestion(status string, duration float64) {
	IngestionRunsTotal.WithLabelValues(status).Inc()
	IngestionDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulIngestion.SetToCurrentTime()
	}
}

// RecordSportParse records the outcome of one sport within a run
func RecordSportParse(sport, status string, games, results int) {
	SportParsesTotal.WithLabelValues(sport, status).Inc()
	ScheduledGamesIngested.WithLabelValues(sport).Set(float64(games))
	GameResultsIngested.WithLabelValues(sport).Set(float64(results))
}

// RecordNotification records one push submission
func RecordNotification(gateway, status string, recipients int) {
	NotificationsTotal.WithLabelValues(gateway, status).Inc()
	NotificationRecipients.Add(float64(recipients))
}

// RecordJobRun records a scheduled job run
func RecordJobRun(job, status string) {
	JobRunsTotal.WithLabelValues(job, status).Inc()
}

// RecordTokensPruned records clients deleted after push feedback
func RecordTokensPruned(n int64) {
	TokensPruned.Add(float64(n))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
