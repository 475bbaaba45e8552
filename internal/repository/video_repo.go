package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

// ErrDuplicateVideo is returned when an insert hits the unique constraint on
// the external video ID. Discovery dedups before analysis, so this is the
// last line of defense, not the normal path.
var ErrDuplicateVideo = errors.New("video already exists")

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

// Exists reports whether a video with the given external ID was already
// processed. Must be checked before the expensive analysis path.
func (r *VideoRepo) Exists(ctx context.Context, videoID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM videos WHERE video_id = $1)`, videoID).Scan(&exists)
	return exists, err
}

// Insert writes a fully analyzed video in one atomic statement.
func (r *VideoRepo) Insert(ctx context.Context, v *model.Video) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO videos
			(video_id, channel_ref, channel_name, title, description, tags,
			 view_count, like_count, comment_count,
			 is_relevant, relevance_score, relevance_reason, content_category,
			 sentiment_positive, sentiment_negative, sentiment_neutral,
			 key_topics, engagement_potential, target_audience, lead_potential,
			 recommended_actions, ai_analysis_summary, trending_score,
			 evergreen_potential, ai_analysis_timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, NOW())`,
		v.VideoID, v.ChannelRef, v.ChannelName, v.Title, v.Description, v.Tags,
		v.ViewCount, v.LikeCount, v.CommentCount,
		v.Analysis.IsRelevant, v.Analysis.RelevanceScore, v.Analysis.RelevanceReason,
		v.Analysis.ContentCategory,
		v.Analysis.Sentiment.Positive, v.Analysis.Sentiment.Negative, v.Analysis.Sentiment.Neutral,
		v.Analysis.KeyTopics, v.Analysis.EngagementPotential, v.Analysis.TargetAudience,
		v.Analysis.LeadPotential, v.Analysis.RecommendedActions, v.Analysis.Summary,
		v.Analysis.TrendingScore, v.Analysis.EvergreenPotential, v.Analysis.AnalysisTimestamp)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateVideo
		}
		return err
	}
	return nil
}

// CountForChannel returns how many processed videos belong to a channel.
func (r *VideoRepo) CountForChannel(ctx context.Context, channelRef int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM videos WHERE channel_ref = $1`, channelRef).Scan(&n)
	return n, err
}
