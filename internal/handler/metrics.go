package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the monitor.
var Metrics = struct {
	CredentialsChecked *prometheus.CounterVec
	ChannelsSynced     *prometheus.CounterVec
	VideosProcessed    *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	TranscribeQueue    prometheus.GaugeFunc
	DBPoolActive       prometheus.GaugeFunc
	DBPoolIdle         prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
// queueDepth reads the live transcription backlog.
func InitMetrics(pool *pgxpool.Pool, queueDepth func() int) {
	Metrics.CredentialsChecked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_monitor_credentials_checked_total",
			Help: "Credential evaluations, by verdict.",
		},
		[]string{"verdict"},
	)

	Metrics.ChannelsSynced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_monitor_channels_synced_total",
			Help: "Channel ranking sync writes, by kind.",
		},
		[]string{"kind"},
	)

	Metrics.VideosProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_monitor_videos_processed_total",
			Help: "Discovered videos, by outcome.",
		},
		[]string{"outcome"},
	)

	Metrics.StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtube_monitor_stage_duration_seconds",
			Help:    "Duration of one pipeline stage tick.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"stage"},
	)

	if queueDepth != nil {
		Metrics.TranscribeQueue = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "youtube_monitor_transcription_queue_depth",
				Help: "Jobs waiting in the transcription queue.",
			},
			func() float64 {
				return float64(queueDepth())
			},
		)
		prometheus.MustRegister(Metrics.TranscribeQueue)
	}

	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "youtube_monitor_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)
		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "youtube_monitor_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)
		prometheus.MustRegister(Metrics.DBPoolActive, Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.CredentialsChecked,
		Metrics.ChannelsSynced,
		Metrics.VideosProcessed,
		Metrics.StageDuration,
	)
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
