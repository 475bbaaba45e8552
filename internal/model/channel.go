package model

import (
	"strings"
	"time"
)

// Channel is a monitored YouTube channel belonging to a project.
// VideoIDs is an ordered set: the repository serializes it to a comma-joined
// column but no ID ever appears twice.
type Channel struct {
	ID              int64      `json:"id"`
	ProjectID       int64      `json:"projectId"`
	ChannelID       string     `json:"channelId"`
	Name            string     `json:"name"`
	RankScore       float64    `json:"rankScore"`
	RankPosition    int        `json:"rankPosition"`
	TotalLeads      int        `json:"totalLeads"`
	TotalComments   int        `json:"totalComments"`
	LastInteraction *time.Time `json:"lastInteraction,omitempty"`
	VideoIDs        []string   `json:"videoIds"`
	LastVideoCheck  *time.Time `json:"lastVideoCheck,omitempty"`
	EngagementRate  float64    `json:"engagementRate"`
	Active          bool       `json:"active"`
}

// AddVideoID appends id to the channel's video set if absent.
// Returns true when the set changed.
func (c *Channel) AddVideoID(id string) bool {
	for _, v := range c.VideoIDs {
		if v == id {
			return false
		}
	}
	c.VideoIDs = append(c.VideoIDs, id)
	return true
}

// JoinVideoIDs serializes the video set for storage.
func JoinVideoIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// SplitVideoIDs parses the stored comma-joined column back into a set,
// dropping empty segments and duplicates left by legacy writers.
func SplitVideoIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		ids = append(ids, p)
	}
	return ids
}

// RankedChannel is one row of the per-project lead ranking view consumed by
// the rank synchronizer.
type RankedChannel struct {
	ChannelID       string     `json:"authorChannelId"`
	Name            string     `json:"authorName"`
	TotalComments   int        `json:"totalComments"`
	LeadComments    int        `json:"leadComments"`
	AvgLeadScore    float64    `json:"avgLeadScore"`
	LastInteraction *time.Time `json:"lastLeadInteraction,omitempty"`
	VideoCount      int        `json:"videoCount"`
	RankPosition    int        `json:"rankingPosition"`
}
