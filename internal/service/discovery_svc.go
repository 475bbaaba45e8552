package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
	"github.com/BVStecnologia/youtube-monitor/internal/youtube"
)

// Cold-start versus steady-state page sizes: a channel never checked before
// fetches a small bounded page to cap first-run cost; later runs fetch a
// larger page so backlog is not missed.
const (
	coldStartPageSize = 5
	steadyPageSize    = 50
)

type projectLister interface {
	ListValid(ctx context.Context) ([]model.Project, error)
}

type discoveryChannelStore interface {
	ListActive(ctx context.Context, projectID int64) ([]model.Channel, error)
	TouchLastCheck(ctx context.Context, id int64) error
}

type discoveryVideoStore interface {
	Exists(ctx context.Context, videoID string) (bool, error)
}

type videoSearcher interface {
	Search(ctx context.Context, accessToken, channelID string, publishedAfter time.Time, maxResults int) ([]youtube.SearchResult, error)
}

type videoAnalyzer interface {
	Analyze(ctx context.Context, project model.Project, videoID string) (*model.Video, error)
}

type videoSaver interface {
	Save(ctx context.Context, video *model.Video, channelID int64) error
}

// DiscoveryReport counts one discovery pass for observability.
type DiscoveryReport struct {
	Channels   int
	Found      int
	New        int
	Duplicates int
	Irrelevant int
	Failed     int
}

// DiscoveryService walks every valid project's active channels, lists videos
// published since each channel's watermark and routes new ones through
// analysis and persistence. Everything runs sequentially: one project, one
// channel, one video at a time.
type DiscoveryService struct {
	projects projectLister
	channels discoveryChannelStore
	videos   discoveryVideoStore
	search   videoSearcher
	analysis videoAnalyzer
	persist  videoSaver
	tokens   accessTokenSource
	cache    *CacheService
}

func NewDiscoveryService(projects projectLister, channels discoveryChannelStore, videos discoveryVideoStore, search videoSearcher, analysis videoAnalyzer, persist videoSaver, tokens accessTokenSource, cache *CacheService) *DiscoveryService {
	return &DiscoveryService{
		projects: projects,
		channels: channels,
		videos:   videos,
		search:   search,
		analysis: analysis,
		persist:  persist,
		tokens:   tokens,
		cache:    cache,
	}
}

// DiscoverAll runs discovery for every project with a valid credential.
// Failures are contained per project and per channel.
func (s *DiscoveryService) DiscoverAll(ctx context.Context) (DiscoveryReport, error) {
	projects, err := s.projects.ListValid(ctx)
	if err != nil {
		return DiscoveryReport{}, fmt.Errorf("list valid projects: %w", err)
	}

	var total DiscoveryReport
	for _, p := range projects {
		report, err := s.DiscoverProject(ctx, p)
		if err != nil {
			log.Error().Err(err).Int64("project", p.ID).Msg("discovery: project failed")
			continue
		}
		total.Channels += report.Channels
		total.Found += report.Found
		total.New += report.New
		total.Duplicates += report.Duplicates
		total.Irrelevant += report.Irrelevant
		total.Failed += report.Failed
	}
	return total, nil
}

// DiscoverProject walks a single project's active channels in rank order.
func (s *DiscoveryService) DiscoverProject(ctx context.Context, project model.Project) (DiscoveryReport, error) {
	channels, err := s.channels.ListActive(ctx, project.ID)
	if err != nil {
		return DiscoveryReport{}, fmt.Errorf("list channels: %w", err)
	}

	var report DiscoveryReport
	for i := range channels {
		ch := &channels[i]
		cr := s.DiscoverChannel(ctx, project, ch)
		report.Channels++
		report.Found += cr.Found
		report.New += cr.New
		report.Duplicates += cr.Duplicates
		report.Irrelevant += cr.Irrelevant
		report.Failed += cr.Failed
	}

	log.Info().Int64("project", project.ID).
		Int("channels", report.Channels).Int("found", report.Found).
		Int("new", report.New).Int("duplicates", report.Duplicates).
		Int("irrelevant", report.Irrelevant).Int("failed", report.Failed).
		Msg("discovery: project complete")
	return report, nil
}

// DiscoverChannel lists videos published after the channel's watermark and
// processes them in discovery order. Once the page has been listed, the
// watermark advances to now no matter what happens to individual videos:
// forward progress is guaranteed and reprocessing is bounded to one window.
// The cost is that a video failing downstream is never retried.
func (s *DiscoveryService) DiscoverChannel(ctx context.Context, project model.Project, ch *model.Channel) DiscoveryReport {
	var report DiscoveryReport

	token, err := s.tokens.CurrentAccessToken(ctx, project.ID)
	if err != nil {
		log.Error().Err(err).Int64("channel", ch.ID).Msg("discovery: no access token")
		report.Failed++
		return report
	}

	since := time.Unix(0, 0).UTC()
	pageSize := coldStartPageSize
	if ch.LastVideoCheck != nil {
		since = *ch.LastVideoCheck
		pageSize = steadyPageSize
	}

	results, err := s.search.Search(ctx, token, ch.ChannelID, since, pageSize)
	if err != nil {
		// No page was listed, so the watermark stays put and this window
		// is retried on the next tick.
		log.Error().Err(err).Str("channel", ch.ChannelID).Msg("discovery: search failed")
		report.Failed++
		return report
	}
	report.Found = len(results)

	for _, r := range results {
		switch s.processVideo(ctx, project, ch, r.VideoID) {
		case videoNew:
			report.New++
		case videoDuplicate:
			report.Duplicates++
		case videoIrrelevant:
			report.Irrelevant++
		case videoFailed:
			report.Failed++
		}
	}

	if err := s.channels.TouchLastCheck(ctx, ch.ID); err != nil {
		log.Error().Err(err).Int64("channel", ch.ID).Msg("discovery: watermark update failed")
	}
	return report
}

type videoOutcome int

const (
	videoNew videoOutcome = iota
	videoDuplicate
	videoIrrelevant
	videoFailed
)

// processVideo is the per-video unit of containment: no failure here touches
// the rest of the page.
func (s *DiscoveryService) processVideo(ctx context.Context, project model.Project, ch *model.Channel, videoID string) videoOutcome {
	seen, err := s.alreadySeen(ctx, videoID)
	if err != nil {
		log.Error().Err(err).Str("video", videoID).Msg("discovery: dedup check failed")
		return videoFailed
	}
	if seen {
		log.Debug().Str("video", videoID).Msg("discovery: already processed")
		return videoDuplicate
	}

	video, err := s.analysis.Analyze(ctx, project, videoID)
	if err != nil {
		log.Error().Err(err).Str("video", videoID).Msg("discovery: analysis failed")
		return videoFailed
	}

	if !video.Analysis.IsRelevant {
		log.Info().Str("video", videoID).Str("reason", clip(video.Analysis.RelevanceReason, 100)).
			Msg("discovery: video not relevant")
		return videoIrrelevant
	}

	video.ChannelRef = ch.ID
	video.ChannelName = ch.Name
	if err := s.persist.Save(ctx, video, ch.ID); err != nil {
		log.Error().Err(err).Str("video", videoID).Msg("discovery: save failed")
		return videoFailed
	}

	log.Info().Str("video", videoID).Float64("score", video.Analysis.RelevanceScore).
		Msg("discovery: video processed and saved")
	return videoNew
}

// alreadySeen is the sole deduplication guard, checked before the expensive
// analysis path. Redis answers fast for recently seen videos; the video
// table is authoritative.
func (s *DiscoveryService) alreadySeen(ctx context.Context, videoID string) (bool, error) {
	if s.cache != nil {
		hit, err := s.cache.VideoSeen(ctx, videoID)
		if err != nil {
			log.Warn().Err(err).Str("video", videoID).Msg("discovery: cache check failed")
		} else if hit {
			return true, nil
		}
	}
	return s.videos.Exists(ctx, videoID)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
