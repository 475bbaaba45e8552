package service

import (
	"context"
	"errors"
	"testing"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
	"github.com/BVStecnologia/youtube-monitor/internal/repository"
)

type fakePersistChannels struct {
	channel     *model.Channel
	getErr      error
	gotVideoIDs []string
	gotRate     float64
	updates     int
}

func (f *fakePersistChannels) Get(ctx context.Context, id int64) (*model.Channel, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	cp := *f.channel
	cp.VideoIDs = append([]string(nil), f.channel.VideoIDs...)
	return &cp, nil
}

func (f *fakePersistChannels) UpdateAfterVideo(ctx context.Context, id int64, videoIDs []string, engagementRate float64) error {
	f.updates++
	f.gotVideoIDs = videoIDs
	f.gotRate = engagementRate
	return nil
}

type fakePersistVideos struct {
	inserts []string
	err     error
}

func (f *fakePersistVideos) Insert(ctx context.Context, v *model.Video) error {
	if f.err != nil {
		return f.err
	}
	f.inserts = append(f.inserts, v.VideoID)
	return nil
}

func analyzedVideo(id string, trending float64) *model.Video {
	return &model.Video{
		VideoID:  id,
		Analysis: model.AnalysisResult{IsRelevant: true, TrendingScore: trending},
	}
}

func TestSave_UpdatesChannelAggregates(t *testing.T) {
	channels := &fakePersistChannels{channel: &model.Channel{
		ID: 5, VideoIDs: []string{"old1"}, EngagementRate: 0.4,
	}}
	videos := &fakePersistVideos{}
	svc := NewPersistService(videos, channels, nil)

	if err := svc.Save(context.Background(), analyzedVideo("vid1", 0.8), 5); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(videos.inserts) != 1 {
		t.Fatalf("inserted %d videos, want 1", len(videos.inserts))
	}
	want := []string{"old1", "vid1"}
	if len(channels.gotVideoIDs) != 2 || channels.gotVideoIDs[0] != want[0] || channels.gotVideoIDs[1] != want[1] {
		t.Errorf("video set = %v, want %v", channels.gotVideoIDs, want)
	}
	if got := channels.gotRate; got != 0.6 {
		t.Errorf("engagement rate = %v, want 0.6", got)
	}
}

func TestSave_DuplicateIsNoOp(t *testing.T) {
	channels := &fakePersistChannels{channel: &model.Channel{ID: 5}}
	videos := &fakePersistVideos{err: repository.ErrDuplicateVideo}
	svc := NewPersistService(videos, channels, nil)

	if err := svc.Save(context.Background(), analyzedVideo("vid1", 0.8), 5); err != nil {
		t.Fatalf("duplicate insert must be silent, got %v", err)
	}
	if channels.updates != 0 {
		t.Error("channel updated for a duplicate video")
	}
}

func TestSave_InsertErrorPropagates(t *testing.T) {
	channels := &fakePersistChannels{channel: &model.Channel{ID: 5}}
	videos := &fakePersistVideos{err: errors.New("db down")}
	svc := NewPersistService(videos, channels, nil)

	if err := svc.Save(context.Background(), analyzedVideo("vid1", 0.8), 5); err == nil {
		t.Error("expected insert error to propagate")
	}
}

func TestSave_ChannelFailureDoesNotFailSave(t *testing.T) {
	channels := &fakePersistChannels{getErr: errors.New("channel gone")}
	videos := &fakePersistVideos{}
	svc := NewPersistService(videos, channels, nil)

	if err := svc.Save(context.Background(), analyzedVideo("vid1", 0.8), 5); err != nil {
		t.Errorf("video insert succeeded, Save must not fail: %v", err)
	}
	if len(videos.inserts) != 1 {
		t.Error("video row missing")
	}
}

func TestSave_VideoSetKeepsSetSemantics(t *testing.T) {
	channels := &fakePersistChannels{channel: &model.Channel{
		ID: 5, VideoIDs: []string{"vid1", "vid2"},
	}}
	videos := &fakePersistVideos{}
	svc := NewPersistService(videos, channels, nil)

	if err := svc.Save(context.Background(), analyzedVideo("vid2", 0.8), 5); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(channels.gotVideoIDs) != 2 {
		t.Errorf("video set = %v, duplicate id was appended", channels.gotVideoIDs)
	}
}

func TestSmoothEngagement(t *testing.T) {
	tests := []struct {
		previous, trending, want float64
	}{
		{0, 0, 0},
		{0, 1, 0.5},
		{0.4, 0.8, 0.6},
		{1, 1, 1},
	}
	for _, tt := range tests {
		if got := SmoothEngagement(tt.previous, tt.trending); got != tt.want {
			t.Errorf("SmoothEngagement(%v, %v) = %v, want %v", tt.previous, tt.trending, got, tt.want)
		}
	}
}
