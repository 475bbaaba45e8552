package llm

import (
	"fmt"
	"strings"
)

// buildPrompt composes the relevance-scoring prompt: project context, video
// metadata, transcript, and the exact JSON schema the reply must match.
func buildPrompt(in AnalysisInput) string {
	tags := "Not available"
	if len(in.Tags) > 0 {
		tags = strings.Join(in.Tags, ", ")
	}

	var b strings.Builder
	b.WriteString("Analyze this YouTube video considering the project context and all data provided.\n\n")

	fmt.Fprintf(&b, `PROJECT CONTEXT:
Name: %s
Description: %s
Target Keywords: %s
Negative Keywords: %s
Country: %s

`, in.Project.Name, in.Project.Description, in.Project.Keywords,
		in.Project.NegativeKeywords, in.Project.Country)

	fmt.Fprintf(&b, `VIDEO DATA:
ID: %s
Title: %s
Description: %s
Tags: %s
Channel: %s
Published: %s
Views: %d
Likes: %d
Comments: %d

`, in.VideoID, in.Title, in.Description, tags, in.ChannelTitle,
		in.PublishedAt, in.ViewCount, in.LikeCount, in.CommentCount)

	fmt.Fprintf(&b, "VIDEO TRANSCRIPT:\n%s\n\n", in.Transcript)

	b.WriteString(`Return ONLY a valid JSON object with this exact structure:
{
    "is_relevant": boolean,
    "relevance_score": number,
    "relevance_reason": string,
    "content_category": string,
    "sentiment_analysis": {
        "positive": number,
        "negative": number,
        "neutral": number
    },
    "key_topics": string[],
    "engagement_potential": string,
    "target_audience": string,
    "lead_potential": string,
    "recommended_actions": string[],
    "ai_analysis_summary": string,
    "trending_score": number,
    "evergreen_potential": boolean
}

Rules:
- relevance_score and trending_score are between 0 and 1
- sentiment values are fractions between 0 and 1 summing to roughly 1
- key_topics has at most 5 entries
- engagement_potential and lead_potential are "High", "Medium" or "Low"
- recommended_actions has at most 3 entries`)

	return b.String()
}
