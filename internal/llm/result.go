package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

const (
	maxKeyTopics          = 5
	maxRecommendedActions = 3
)

// rawAnalysis mirrors the JSON schema the model is instructed to reply with.
// Sentiment arrives as fractions in [0,1].
type rawAnalysis struct {
	IsRelevant      bool    `json:"is_relevant"`
	RelevanceScore  float64 `json:"relevance_score"`
	RelevanceReason string  `json:"relevance_reason"`
	ContentCategory string  `json:"content_category"`
	Sentiment       struct {
		Positive float64 `json:"positive"`
		Negative float64 `json:"negative"`
		Neutral  float64 `json:"neutral"`
	} `json:"sentiment_analysis"`
	KeyTopics           []string `json:"key_topics"`
	EngagementPotential string   `json:"engagement_potential"`
	TargetAudience      string   `json:"target_audience"`
	LeadPotential       string   `json:"lead_potential"`
	RecommendedActions  []string `json:"recommended_actions"`
	Summary             string   `json:"ai_analysis_summary"`
	TrendingScore       float64  `json:"trending_score"`
	EvergreenPotential  bool     `json:"evergreen_potential"`
}

// parseAnalysis validates and normalizes the model reply: fenced-block
// cleanup, strict unmarshal, list truncation, score clamping, and sentiment
// scaled from fractions to the percentages the store expects.
func parseAnalysis(reply string) (*model.AnalysisResult, error) {
	cleaned := cleanJSONReply(reply)

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: analysis reply is not valid JSON: %v", model.ErrParse, err)
	}

	result := &model.AnalysisResult{
		IsRelevant:      raw.IsRelevant,
		RelevanceScore:  clamp01(raw.RelevanceScore),
		RelevanceReason: raw.RelevanceReason,
		ContentCategory: raw.ContentCategory,
		Sentiment: model.Sentiment{
			Positive: clamp01(raw.Sentiment.Positive) * 100,
			Negative: clamp01(raw.Sentiment.Negative) * 100,
			Neutral:  clamp01(raw.Sentiment.Neutral) * 100,
		},
		KeyTopics:           truncate(raw.KeyTopics, maxKeyTopics),
		EngagementPotential: parsePotential(raw.EngagementPotential),
		TargetAudience:      raw.TargetAudience,
		LeadPotential:       parsePotential(raw.LeadPotential),
		RecommendedActions:  truncate(raw.RecommendedActions, maxRecommendedActions),
		Summary:             raw.Summary,
		TrendingScore:       clamp01(raw.TrendingScore),
		EvergreenPotential:  raw.EvergreenPotential,
		AnalysisTimestamp:   time.Now().UTC(),
	}
	return result, nil
}

// cleanJSONReply strips markdown fences and surrounding prose some model
// replies wrap the JSON object in.
func cleanJSONReply(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// parsePotential normalizes the enum; anything unrecognized grades Low
// rather than failing the whole analysis.
func parsePotential(s string) model.Potential {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return model.PotentialHigh
	case "medium":
		return model.PotentialMedium
	default:
		return model.PotentialLow
	}
}
