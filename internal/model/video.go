package model

import "time"

// Potential grades engagement and lead potential as reported by the analysis.
type Potential string

const (
	PotentialHigh   Potential = "High"
	PotentialMedium Potential = "Medium"
	PotentialLow    Potential = "Low"
)

// Video is a processed video row. The external VideoID is globally unique:
// a video never belongs to two channels and is never re-inserted. Rows are
// immutable once the analysis is complete.
type Video struct {
	VideoID      string    `json:"videoId"`
	ChannelRef   int64     `json:"channelRef"`
	ChannelName  string    `json:"channelName,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	Analysis     AnalysisResult `json:"analysis"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sentiment is the positive/negative/neutral triple. The LLM replies with
// fractions in [0,1]; values are scaled to percentages before storage.
type Sentiment struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// AnalysisResult is the relevance-scoring verdict for a single video.
type AnalysisResult struct {
	IsRelevant          bool      `json:"is_relevant"`
	RelevanceScore      float64   `json:"relevance_score"`
	RelevanceReason     string    `json:"relevance_reason"`
	ContentCategory     string    `json:"content_category"`
	Sentiment           Sentiment `json:"sentiment_analysis"`
	KeyTopics           []string  `json:"key_topics"`
	EngagementPotential Potential `json:"engagement_potential"`
	TargetAudience      string    `json:"target_audience"`
	LeadPotential       Potential `json:"lead_potential"`
	RecommendedActions  []string  `json:"recommended_actions"`
	Summary             string    `json:"ai_analysis_summary"`
	TrendingScore       float64   `json:"trending_score"`
	EvergreenPotential  bool      `json:"evergreen_potential"`
	AnalysisTimestamp   time.Time `json:"ai_analysis_timestamp"`
}
