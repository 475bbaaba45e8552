package llm

import (
	"context"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

// AnalysisInput is everything the relevance prompt is built from.
type AnalysisInput struct {
	Project      model.Project
	VideoID      string
	Title        string
	Description  string
	Tags         []string
	ChannelTitle string
	PublishedAt  string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	Transcript   string
}

// Analyzer scores one video against a project's content profile.
// Implemented by AnthropicClient; faked in tests.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalysisInput) (*model.AnalysisResult, error)
}
