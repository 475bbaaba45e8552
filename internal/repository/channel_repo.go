package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

const channelColumns = `
	id, project_id, channel_id, COALESCE(name, ''), rank_score, rank_position,
	total_leads, total_comments, last_interaction, COALESCE(video_ids, ''),
	last_video_check, engagement_rate, active`

func scanChannel(row pgx.Row) (*model.Channel, error) {
	var ch model.Channel
	var videoIDs string
	err := row.Scan(
		&ch.ID, &ch.ProjectID, &ch.ChannelID, &ch.Name, &ch.RankScore, &ch.RankPosition,
		&ch.TotalLeads, &ch.TotalComments, &ch.LastInteraction, &videoIDs,
		&ch.LastVideoCheck, &ch.EngagementRate, &ch.Active,
	)
	if err != nil {
		return nil, err
	}
	ch.VideoIDs = model.SplitVideoIDs(videoIDs)
	return &ch, nil
}

// FindByChannelID looks up a channel by its external ID within a project.
// Returns model.ErrNotFound when the channel is unknown.
func (r *ChannelRepo) FindByChannelID(ctx context.Context, projectID int64, channelID string) (*model.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE channel_id = $1 AND project_id = $2`

	ch, err := scanChannel(r.pool.QueryRow(ctx, query, channelID, projectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return ch, err
}

// Get re-reads a channel by primary key.
func (r *ChannelRepo) Get(ctx context.Context, id int64) (*model.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE id = $1`

	ch, err := scanChannel(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return ch, err
}

// ListActive returns the active channels of a project in rank order.
func (r *ChannelRepo) ListActive(ctx context.Context, projectID int64) ([]model.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE project_id = $1 AND active = true
		ORDER BY rank_position`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []model.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, *ch)
	}
	return channels, rows.Err()
}

// Insert creates a new channel row with an empty video set and no watermark.
func (r *ChannelRepo) Insert(ctx context.Context, projectID int64, rc model.RankedChannel) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO channels
			(project_id, channel_id, name, rank_score, rank_position,
			 total_leads, total_comments, last_interaction, video_ids,
			 engagement_rate, active, refreshed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '', 0, true, NOW())`,
		projectID, rc.ChannelID, rc.Name, rc.AvgLeadScore, rc.RankPosition,
		rc.LeadComments, rc.TotalComments, rc.LastInteraction)
	return err
}

// UpdateRank refreshes the rank-derived fields of an existing channel.
// The video set and discovery watermark are deliberately untouched here;
// only the persistence reconciler writes those.
func (r *ChannelRepo) UpdateRank(ctx context.Context, id int64, rc model.RankedChannel) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE channels
		SET name = $1, rank_score = $2, rank_position = $3, total_leads = $4,
		    total_comments = $5, last_interaction = $6, refreshed_at = NOW()
		WHERE id = $7`,
		rc.Name, rc.AvgLeadScore, rc.RankPosition, rc.LeadComments,
		rc.TotalComments, rc.LastInteraction, id)
	return err
}

// UpdateAfterVideo writes the reconciled video set, watermark and smoothed
// engagement rate after a video insert.
func (r *ChannelRepo) UpdateAfterVideo(ctx context.Context, id int64, videoIDs []string, engagementRate float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE channels
		SET video_ids = $1, last_video_check = NOW(), engagement_rate = $2
		WHERE id = $3`,
		model.JoinVideoIDs(videoIDs), engagementRate, id)
	return err
}

// TouchLastCheck advances the discovery watermark to now. Called
// unconditionally after a channel's page has been processed so a failing
// video can never stall the watermark.
func (r *ChannelRepo) TouchLastCheck(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE channels SET last_video_check = NOW() WHERE id = $1`, id)
	return err
}

// RankingRows reads the per-project lead ranking view, best ranked first.
func (r *ChannelRepo) RankingRows(ctx context.Context, projectID int64, limit int) ([]model.RankedChannel, error) {
	query := `
		SELECT author_channel_id, COALESCE(author_name, ''), total_comments,
		       lead_comments, COALESCE(avg_lead_score, 0), last_lead_interaction,
		       video_count, ranking_position
		FROM channel_lead_ranking
		WHERE project_id = $1
		ORDER BY ranking_position
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []model.RankedChannel
	for rows.Next() {
		var rc model.RankedChannel
		err := rows.Scan(
			&rc.ChannelID, &rc.Name, &rc.TotalComments, &rc.LeadComments,
			&rc.AvgLeadScore, &rc.LastInteraction, &rc.VideoCount, &rc.RankPosition,
		)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rc)
	}
	return ranked, rows.Err()
}
