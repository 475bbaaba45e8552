package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/BVStecnologia/youtube-monitor/internal/config"
	"github.com/BVStecnologia/youtube-monitor/internal/db"
	"github.com/BVStecnologia/youtube-monitor/internal/handler"
	"github.com/BVStecnologia/youtube-monitor/internal/llm"
	"github.com/BVStecnologia/youtube-monitor/internal/middleware"
	"github.com/BVStecnologia/youtube-monitor/internal/repository"
	"github.com/BVStecnologia/youtube-monitor/internal/router"
	"github.com/BVStecnologia/youtube-monitor/internal/service"
	"github.com/BVStecnologia/youtube-monitor/internal/transcribe"
	"github.com/BVStecnologia/youtube-monitor/internal/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		middleware.InitLogger("info", "youtube-monitor")
		log.Fatal().Err(err).Msg("configuration")
	}
	middleware.InitLogger(cfg.LogLevel, "youtube-monitor")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection")
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	projects := repository.NewProjectRepo(pool)
	integrations := repository.NewIntegrationRepo(pool)
	channels := repository.NewChannelRepo(pool)
	videos := repository.NewVideoRepo(pool)

	yt := youtube.NewClient()
	refresher := youtube.NewRefresher(cfg.GoogleClientID, cfg.GoogleClientSecret)

	queue := transcribe.NewQueue(transcribe.NewBackendClient(cfg.TranscribeURL))
	go queue.Start(ctx)

	analyzer := llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)

	credentials := service.NewCredentialService(projects, integrations, yt, refresher)
	ranking := service.NewRankingService(channels)
	analysis := service.NewAnalysisService(yt, queue, analyzer, integrations)
	persist := service.NewPersistService(videos, channels, cache)
	discovery := service.NewDiscoveryService(projects, channels, videos, yt, analysis, persist, integrations, cache)
	channelStatus := service.NewChannelStatusService(channels, videos, cache)

	handler.InitMetrics(pool, queue.Depth)
	tracker := service.NewStatusTracker()

	workers := []*service.Worker{
		service.NewWorker("credentials", cfg.CredentialInterval, func(ctx context.Context) {
			start := time.Now()
			sum, err := credentials.EvaluateAll(ctx)
			if _, serr := credentials.SweepStale(ctx); serr != nil {
				log.Error().Err(serr).Msg("stale credential sweep failed")
			}

			handler.Metrics.CredentialsChecked.WithLabelValues("valid").Add(float64(sum.Valid))
			handler.Metrics.CredentialsChecked.WithLabelValues("invalid").Add(float64(sum.Invalid))
			handler.Metrics.StageDuration.WithLabelValues("credentials").Observe(time.Since(start).Seconds())
			tracker.Record("credentials", time.Since(start), map[string]int{
				"checked": sum.Checked, "valid": sum.Valid, "invalid": sum.Invalid,
			}, err)
		}),

		service.NewWorker("ranking", cfg.RankingInterval, func(ctx context.Context) {
			start := time.Now()
			var total service.RankingReport
			valid, err := projects.ListValid(ctx)
			for _, p := range valid {
				report, rerr := ranking.SyncProject(ctx, p.ID)
				if rerr != nil {
					log.Error().Err(rerr).Int64("project", p.ID).Msg("ranking sync failed")
					continue
				}
				total.Updated += report.Updated
				total.Inserted += report.Inserted
				total.Skipped += report.Skipped
			}

			handler.Metrics.ChannelsSynced.WithLabelValues("updated").Add(float64(total.Updated))
			handler.Metrics.ChannelsSynced.WithLabelValues("inserted").Add(float64(total.Inserted))
			handler.Metrics.ChannelsSynced.WithLabelValues("skipped").Add(float64(total.Skipped))
			handler.Metrics.StageDuration.WithLabelValues("ranking").Observe(time.Since(start).Seconds())
			tracker.Record("ranking", time.Since(start), map[string]int{
				"updated": total.Updated, "inserted": total.Inserted, "skipped": total.Skipped,
			}, err)
		}),

		service.NewWorker("discovery", cfg.DiscoveryInterval, func(ctx context.Context) {
			start := time.Now()
			report, err := discovery.DiscoverAll(ctx)

			handler.Metrics.VideosProcessed.WithLabelValues("new").Add(float64(report.New))
			handler.Metrics.VideosProcessed.WithLabelValues("duplicate").Add(float64(report.Duplicates))
			handler.Metrics.VideosProcessed.WithLabelValues("irrelevant").Add(float64(report.Irrelevant))
			handler.Metrics.VideosProcessed.WithLabelValues("failed").Add(float64(report.Failed))
			handler.Metrics.StageDuration.WithLabelValues("discovery").Observe(time.Since(start).Seconds())
			tracker.Record("discovery", time.Since(start), map[string]int{
				"channels": report.Channels, "found": report.Found, "new": report.New,
				"duplicates": report.Duplicates, "irrelevant": report.Irrelevant, "failed": report.Failed,
			}, err)
		}),
	}
	for _, w := range workers {
		go w.Start(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      "YouTube Monitor",
		ServerHeader: "youtube-monitor",
	})
	router.Setup(app, &router.Handlers{
		Health:  handler.NewHealthHandler(pool, cache.Client()),
		Status:  handler.NewStatusHandler(tracker),
		Channel: handler.NewChannelHandler(channelStatus),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("monitor started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
