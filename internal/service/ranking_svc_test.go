package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

type fakeRankingStore struct {
	existing map[string]*model.Channel
	inserted []string
	updated  []int64
	failAll  bool
}

func (f *fakeRankingStore) FindByChannelID(ctx context.Context, projectID int64, channelID string) (*model.Channel, error) {
	if f.failAll {
		return nil, errors.New("db down")
	}
	if ch, ok := f.existing[channelID]; ok {
		return ch, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeRankingStore) Insert(ctx context.Context, projectID int64, rc model.RankedChannel) error {
	if f.failAll {
		return errors.New("db down")
	}
	f.inserted = append(f.inserted, rc.ChannelID)
	return nil
}

func (f *fakeRankingStore) UpdateRank(ctx context.Context, id int64, rc model.RankedChannel) error {
	if f.failAll {
		return errors.New("db down")
	}
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeRankingStore) RankingRows(ctx context.Context, projectID int64, limit int) ([]model.RankedChannel, error) {
	return nil, nil
}

func rankedEntries(n int) []model.RankedChannel {
	out := make([]model.RankedChannel, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.RankedChannel{
			ChannelID:    fmt.Sprintf("UC%03d", i),
			Name:         fmt.Sprintf("channel %d", i),
			RankPosition: i + 1,
		})
	}
	return out
}

func TestSync_InsertsNewChannels(t *testing.T) {
	store := &fakeRankingStore{existing: map[string]*model.Channel{}}
	svc := NewRankingService(store)

	report, err := svc.Sync(context.Background(), 1, rankedEntries(3))
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Inserted != 3 || report.Updated != 0 || report.Skipped != 0 {
		t.Errorf("report = %+v, want 3 inserted", report)
	}
}

func TestSync_UpdatesExistingInPlace(t *testing.T) {
	store := &fakeRankingStore{existing: map[string]*model.Channel{
		"UC000": {ID: 77, ChannelID: "UC000"},
	}}
	svc := NewRankingService(store)

	report, err := svc.Sync(context.Background(), 1, rankedEntries(2))
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Updated != 1 || report.Inserted != 1 {
		t.Errorf("report = %+v, want 1 updated and 1 inserted", report)
	}
	if len(store.updated) != 1 || store.updated[0] != 77 {
		t.Errorf("updated ids = %v, want [77]", store.updated)
	}
}

func TestSync_TruncatesToTop30(t *testing.T) {
	store := &fakeRankingStore{existing: map[string]*model.Channel{}}
	svc := NewRankingService(store)

	report, err := svc.Sync(context.Background(), 1, rankedEntries(45))
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Processed() != MaxRankedChannels {
		t.Errorf("processed %d channels, want %d", report.Processed(), MaxRankedChannels)
	}
	if len(store.inserted) != MaxRankedChannels {
		t.Errorf("inserted %d, want %d", len(store.inserted), MaxRankedChannels)
	}
}

func TestSync_SkipsEntryWithoutChannelID(t *testing.T) {
	store := &fakeRankingStore{existing: map[string]*model.Channel{}}
	svc := NewRankingService(store)

	entries := rankedEntries(2)
	entries[0].ChannelID = ""

	report, err := svc.Sync(context.Background(), 1, entries)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Skipped != 1 || report.Inserted != 1 {
		t.Errorf("report = %+v, want 1 skipped and 1 inserted", report)
	}
}

func TestSync_ErrorOnlyWhenNothingProcessed(t *testing.T) {
	store := &fakeRankingStore{failAll: true}
	svc := NewRankingService(store)

	if _, err := svc.Sync(context.Background(), 1, rankedEntries(3)); err == nil {
		t.Error("expected an error when every entry failed")
	}

	if _, err := svc.Sync(context.Background(), 1, nil); err != nil {
		t.Errorf("empty ranking must not error, got %v", err)
	}
}
