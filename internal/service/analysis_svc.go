package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BVStecnologia/youtube-monitor/internal/llm"
	"github.com/BVStecnologia/youtube-monitor/internal/model"
	"github.com/BVStecnologia/youtube-monitor/internal/transcribe"
	"github.com/BVStecnologia/youtube-monitor/internal/youtube"
)

type videoMetadataSource interface {
	Details(ctx context.Context, accessToken, videoID string) (*youtube.VideoDetails, error)
}

type transcriber interface {
	Submit(videoID string) <-chan transcribe.Result
}

type accessTokenSource interface {
	CurrentAccessToken(ctx context.Context, projectID int64) (string, error)
}

// AnalysisService runs the full per-video analysis path: metadata fetch,
// serialized transcription, LLM relevance scoring.
type AnalysisService struct {
	metadata videoMetadataSource
	queue    transcriber
	analyzer llm.Analyzer
	tokens   accessTokenSource
}

func NewAnalysisService(metadata videoMetadataSource, queue transcriber, analyzer llm.Analyzer, tokens accessTokenSource) *AnalysisService {
	return &AnalysisService{metadata: metadata, queue: queue, analyzer: analyzer, tokens: tokens}
}

// Analyze produces a fully scored video, or an error that the caller
// contains to this one video. The returned video carries no channel
// reference yet; the discovery pipeline owns that.
func (s *AnalysisService) Analyze(ctx context.Context, project model.Project, videoID string) (*model.Video, error) {
	token, err := s.tokens.CurrentAccessToken(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("access token for project %d: %w", project.ID, err)
	}

	details, err := s.metadata.Details(ctx, token, videoID)
	if err != nil {
		return nil, fmt.Errorf("video metadata: %w", err)
	}

	var result transcribe.Result
	select {
	case result = <-s.queue.Submit(videoID):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if result.Err != nil {
		return nil, fmt.Errorf("transcription: %w", result.Err)
	}
	if result.Transcript.Empty() {
		log.Warn().Str("video", videoID).Msg("analysis: empty transcript, scoring on metadata only")
	}

	analysis, err := s.analyzer.Analyze(ctx, llm.AnalysisInput{
		Project:      project,
		VideoID:      videoID,
		Title:        details.Title,
		Description:  details.Description,
		Tags:         details.Tags,
		ChannelTitle: details.ChannelTitle,
		PublishedAt:  details.PublishedAt.Format(time.RFC3339),
		ViewCount:    details.ViewCount,
		LikeCount:    details.LikeCount,
		CommentCount: details.CommentCount,
		Transcript:   result.Transcript.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("relevance scoring: %w", err)
	}

	return &model.Video{
		VideoID:      videoID,
		Title:        details.Title,
		Description:  details.Description,
		Tags:         details.Tags,
		ViewCount:    details.ViewCount,
		LikeCount:    details.LikeCount,
		CommentCount: details.CommentCount,
		Analysis:     *analysis,
	}, nil
}
