package service

import (
	"context"
	"errors"
	"testing"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

type fakeChannelGetter struct {
	channel *model.Channel
}

func (f *fakeChannelGetter) Get(ctx context.Context, id int64) (*model.Channel, error) {
	if f.channel == nil {
		return nil, model.ErrNotFound
	}
	return f.channel, nil
}

type fakeVideoCounter struct {
	count int
}

func (f *fakeVideoCounter) CountForChannel(ctx context.Context, channelRef int64) (int, error) {
	return f.count, nil
}

func TestChannelLookup(t *testing.T) {
	svc := NewChannelStatusService(
		&fakeChannelGetter{channel: &model.Channel{ID: 5, Name: "acme"}},
		&fakeVideoCounter{count: 12},
		nil,
	)

	status, err := svc.Lookup(context.Background(), 5)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if status.Channel.Name != "acme" || status.VideoCount != 12 {
		t.Errorf("status = %+v", status)
	}
}

func TestChannelLookup_NotFound(t *testing.T) {
	svc := NewChannelStatusService(&fakeChannelGetter{}, &fakeVideoCounter{}, nil)

	_, err := svc.Lookup(context.Background(), 404)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
