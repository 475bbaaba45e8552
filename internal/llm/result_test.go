package llm

import (
	"errors"
	"testing"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

const validReply = `{
	"is_relevant": true,
	"relevance_score": 0.85,
	"relevance_reason": "matches target keywords",
	"content_category": "tutorial",
	"sentiment_analysis": {"positive": 0.7, "negative": 0.1, "neutral": 0.2},
	"key_topics": ["go", "testing"],
	"engagement_potential": "High",
	"target_audience": "developers",
	"lead_potential": "Medium",
	"recommended_actions": ["comment", "follow up"],
	"ai_analysis_summary": "a relevant tutorial",
	"trending_score": 0.6,
	"evergreen_potential": true
}`

func TestParseAnalysis_Valid(t *testing.T) {
	r, err := parseAnalysis(validReply)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if !r.IsRelevant {
		t.Error("is_relevant lost")
	}
	if r.RelevanceScore != 0.85 {
		t.Errorf("relevance_score = %v, want 0.85", r.RelevanceScore)
	}
	if r.Sentiment.Positive != 70 {
		t.Errorf("positive sentiment = %v, want 70 (scaled to percentage)", r.Sentiment.Positive)
	}
	if r.EngagementPotential != model.PotentialHigh {
		t.Errorf("engagement = %v, want High", r.EngagementPotential)
	}
	if r.LeadPotential != model.PotentialMedium {
		t.Errorf("lead = %v, want Medium", r.LeadPotential)
	}
	if r.AnalysisTimestamp.IsZero() {
		t.Error("analysis timestamp not set")
	}
}

func TestParseAnalysis_NotJSON(t *testing.T) {
	_, err := parseAnalysis("not json")
	if !errors.Is(err, model.ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestParseAnalysis_FencedReply(t *testing.T) {
	r, err := parseAnalysis("```json\n" + validReply + "\n```")
	if err != nil {
		t.Fatalf("fenced reply rejected: %v", err)
	}
	if r.RelevanceScore != 0.85 {
		t.Errorf("relevance_score = %v, want 0.85", r.RelevanceScore)
	}
}

func TestParseAnalysis_ProseAroundJSON(t *testing.T) {
	r, err := parseAnalysis("Here is the analysis:\n" + validReply + "\nLet me know if you need more.")
	if err != nil {
		t.Fatalf("reply with surrounding prose rejected: %v", err)
	}
	if !r.IsRelevant {
		t.Error("is_relevant lost")
	}
}

func TestParseAnalysis_TruncatesLists(t *testing.T) {
	reply := `{
		"is_relevant": false,
		"relevance_score": 0.1,
		"relevance_reason": "r",
		"content_category": "c",
		"sentiment_analysis": {"positive": 0.3, "negative": 0.3, "neutral": 0.4},
		"key_topics": ["a","b","c","d","e","f","g"],
		"engagement_potential": "Low",
		"target_audience": "t",
		"lead_potential": "Low",
		"recommended_actions": ["1","2","3","4","5"],
		"ai_analysis_summary": "s",
		"trending_score": 0.2,
		"evergreen_potential": false
	}`
	r, err := parseAnalysis(reply)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if len(r.KeyTopics) != maxKeyTopics {
		t.Errorf("key_topics length = %d, want %d", len(r.KeyTopics), maxKeyTopics)
	}
	if len(r.RecommendedActions) != maxRecommendedActions {
		t.Errorf("recommended_actions length = %d, want %d", len(r.RecommendedActions), maxRecommendedActions)
	}
}

func TestParseAnalysis_ClampsScores(t *testing.T) {
	reply := `{
		"is_relevant": true,
		"relevance_score": 1.7,
		"relevance_reason": "r",
		"content_category": "c",
		"sentiment_analysis": {"positive": -0.2, "negative": 0.5, "neutral": 0.5},
		"key_topics": [],
		"engagement_potential": "High",
		"target_audience": "t",
		"lead_potential": "High",
		"recommended_actions": [],
		"ai_analysis_summary": "s",
		"trending_score": -3,
		"evergreen_potential": false
	}`
	r, err := parseAnalysis(reply)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if r.RelevanceScore != 1 {
		t.Errorf("relevance_score = %v, want clamped to 1", r.RelevanceScore)
	}
	if r.TrendingScore != 0 {
		t.Errorf("trending_score = %v, want clamped to 0", r.TrendingScore)
	}
	if r.Sentiment.Positive != 0 {
		t.Errorf("positive sentiment = %v, want clamped to 0", r.Sentiment.Positive)
	}
}

func TestParsePotential(t *testing.T) {
	cases := []struct {
		in   string
		want model.Potential
	}{
		{"High", model.PotentialHigh},
		{"high", model.PotentialHigh},
		{" MEDIUM ", model.PotentialMedium},
		{"Low", model.PotentialLow},
		{"garbage", model.PotentialLow},
		{"", model.PotentialLow},
	}
	for _, c := range cases {
		if got := parsePotential(c.in); got != c.want {
			t.Errorf("parsePotential(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
