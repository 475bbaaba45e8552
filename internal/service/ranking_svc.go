package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

// MaxRankedChannels bounds the channel roster per project: anything beyond
// the top 30 of the ranking view is dropped.
const MaxRankedChannels = 30

type rankingChannelStore interface {
	FindByChannelID(ctx context.Context, projectID int64, channelID string) (*model.Channel, error)
	Insert(ctx context.Context, projectID int64, rc model.RankedChannel) error
	UpdateRank(ctx context.Context, id int64, rc model.RankedChannel) error
	RankingRows(ctx context.Context, projectID int64, limit int) ([]model.RankedChannel, error)
}

// RankingReport counts one Sync pass for observability.
type RankingReport struct {
	Updated  int
	Inserted int
	Skipped  int
}

// Processed returns how many channels were actually written.
func (r RankingReport) Processed() int {
	return r.Updated + r.Inserted
}

// RankingService reconciles the lead-ranking view against the channels table.
type RankingService struct {
	channels rankingChannelStore
}

func NewRankingService(channels rankingChannelStore) *RankingService {
	return &RankingService{channels: channels}
}

// SyncProject reads the project's ranking view and reconciles it.
func (s *RankingService) SyncProject(ctx context.Context, projectID int64) (RankingReport, error) {
	ranked, err := s.channels.RankingRows(ctx, projectID, MaxRankedChannels)
	if err != nil {
		return RankingReport{}, fmt.Errorf("read ranking view: %w", err)
	}
	return s.Sync(ctx, projectID, ranked)
}

// Sync upserts each ranked entry. Rank-derived fields are refreshed in place
// on existing channels; new channels start with an empty video set and no
// discovery watermark. A missing external id skips the entry with a warning.
// Returns an error only when nothing at all could be processed.
func (s *RankingService) Sync(ctx context.Context, projectID int64, ranked []model.RankedChannel) (RankingReport, error) {
	if len(ranked) > MaxRankedChannels {
		ranked = ranked[:MaxRankedChannels]
	}

	var report RankingReport
	for _, rc := range ranked {
		if rc.ChannelID == "" {
			log.Warn().Int64("project", projectID).Str("name", rc.Name).
				Msg("ranking: entry without channel id, skipping")
			report.Skipped++
			continue
		}

		existing, err := s.channels.FindByChannelID(ctx, projectID, rc.ChannelID)
		switch {
		case errors.Is(err, model.ErrNotFound):
			if err := s.channels.Insert(ctx, projectID, rc); err != nil {
				log.Error().Err(err).Str("channel", rc.ChannelID).Msg("ranking: insert failed")
				report.Skipped++
				continue
			}
			report.Inserted++
		case err != nil:
			log.Error().Err(err).Str("channel", rc.ChannelID).Msg("ranking: lookup failed")
			report.Skipped++
		default:
			if err := s.channels.UpdateRank(ctx, existing.ID, rc); err != nil {
				log.Error().Err(err).Str("channel", rc.ChannelID).Msg("ranking: update failed")
				report.Skipped++
				continue
			}
			report.Updated++
		}
	}

	log.Info().Int64("project", projectID).
		Int("updated", report.Updated).Int("inserted", report.Inserted).
		Int("skipped", report.Skipped).
		Msg("ranking: sync complete")

	if len(ranked) > 0 && report.Processed() == 0 {
		return report, fmt.Errorf("ranking sync processed no channels for project %d", projectID)
	}
	return report, nil
}
