package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

type channelGetter interface {
	Get(ctx context.Context, id int64) (*model.Channel, error)
}

type videoCounter interface {
	CountForChannel(ctx context.Context, channelRef int64) (int, error)
}

// ChannelStatus is the read-side view of one monitored channel.
type ChannelStatus struct {
	Channel    model.Channel `json:"channel"`
	VideoCount int           `json:"videoCount"`
}

// ChannelStatusService serves channel lookups for the HTTP surface with a
// Redis cache in front. The cache entry is invalidated whenever the persist
// path touches the channel.
type ChannelStatusService struct {
	channels channelGetter
	videos   videoCounter
	cache    *CacheService
}

func NewChannelStatusService(channels channelGetter, videos videoCounter, cache *CacheService) *ChannelStatusService {
	return &ChannelStatusService{channels: channels, videos: videos, cache: cache}
}

// Lookup returns the channel's current status, cache-aside.
func (s *ChannelStatusService) Lookup(ctx context.Context, channelID int64) (*ChannelStatus, error) {
	if s.cache != nil {
		if data, err := s.cache.GetChannel(ctx, channelID); err != nil {
			log.Warn().Err(err).Int64("channel", channelID).Msg("channel: cache read failed")
		} else if data != nil {
			var status ChannelStatus
			if err := json.Unmarshal(data, &status); err == nil {
				return &status, nil
			}
		}
	}

	ch, err := s.channels.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}
	count, err := s.videos.CountForChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}

	status := &ChannelStatus{Channel: *ch, VideoCount: count}
	if s.cache != nil {
		if err := s.cache.SetChannel(ctx, channelID, status); err != nil {
			log.Warn().Err(err).Int64("channel", channelID).Msg("channel: cache write failed")
		}
	}
	return status, nil
}
