package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
	"github.com/BVStecnologia/youtube-monitor/internal/repository"
)

type persistChannelStore interface {
	Get(ctx context.Context, id int64) (*model.Channel, error)
	UpdateAfterVideo(ctx context.Context, id int64, videoIDs []string, engagementRate float64) error
}

type persistVideoStore interface {
	Insert(ctx context.Context, v *model.Video) error
}

// PersistService owns the idempotent write path: the video row is the
// durable source of truth, the channel aggregate a best-effort cache on top.
type PersistService struct {
	videos   persistVideoStore
	channels persistChannelStore
	cache    *CacheService
}

func NewPersistService(videos persistVideoStore, channels persistChannelStore, cache *CacheService) *PersistService {
	return &PersistService{videos: videos, channels: channels, cache: cache}
}

// Save inserts the analyzed video atomically, then reconciles the owning
// channel: video set (set semantics, never a blind append), watermark and
// smoothed engagement rate. A duplicate insert is a silent no-op: discovery
// already deduped, the unique constraint is the last line of defense. A
// channel-update failure after a successful insert is reported but never
// rolls the video back.
func (s *PersistService) Save(ctx context.Context, video *model.Video, channelID int64) error {
	err := s.videos.Insert(ctx, video)
	if errors.Is(err, repository.ErrDuplicateVideo) {
		log.Warn().Str("video", video.VideoID).
			Msg("persist: video already existed, dedup constraint caught it")
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert video %s: %w", video.VideoID, err)
	}

	if s.cache != nil {
		if err := s.cache.MarkVideoSeen(ctx, video.VideoID); err != nil {
			log.Warn().Err(err).Str("video", video.VideoID).Msg("persist: cache mark failed")
		}
	}

	if err := s.updateChannel(ctx, video, channelID); err != nil {
		log.Error().Err(err).Str("video", video.VideoID).Int64("channel", channelID).
			Msg("persist: channel update failed after video insert, video stands")
	}
	return nil
}

func (s *PersistService) updateChannel(ctx context.Context, video *model.Video, channelID int64) error {
	ch, err := s.channels.Get(ctx, channelID)
	if err != nil {
		return fmt.Errorf("re-read channel: %w", err)
	}

	ch.AddVideoID(video.VideoID)
	rate := SmoothEngagement(ch.EngagementRate, video.Analysis.TrendingScore)

	if err := s.channels.UpdateAfterVideo(ctx, ch.ID, ch.VideoIDs, rate); err != nil {
		return fmt.Errorf("update channel aggregates: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateChannel(ctx, ch.ID); err != nil {
			log.Warn().Err(err).Int64("channel", ch.ID).Msg("persist: cache invalidate failed")
		}
	}
	return nil
}

// SmoothEngagement blends the channel's previous engagement rate with the
// new video's trending score as a plain arithmetic mean. Not a true EMA:
// the implicit weight is a fixed 0.5.
func SmoothEngagement(previous, trendingScore float64) float64 {
	return (trendingScore + previous) / 2
}
