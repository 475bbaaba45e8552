package transcribe

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Cooldown is the mandatory pause after each completed call before the next
// dequeue. The backend rate-limits by IP, so dispatches must never bunch up.
const Cooldown = 2 * time.Second

// Result is delivered on the channel returned by Submit once the job's turn
// completes. Exactly one of Transcript/Err is meaningful.
type Result struct {
	Transcript Transcript
	Err        error
}

type job struct {
	id       string
	videoID  string
	enqueued time.Time
	out      chan Result
}

// Queue serializes calls to the transcription backend: exactly one in-flight
// call at any time, with a fixed cool-down after each completion. Submit
// never blocks; a single consumer goroutine owned by Start drains jobs in
// FIFO order. One failed job never stalls the queue.
type Queue struct {
	backend  Backend
	cooldown time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	pending []job
	wake    chan struct{}
}

func NewQueue(backend Backend) *Queue {
	return &Queue{
		backend:  backend,
		cooldown: Cooldown,
		timeout:  CallTimeout,
		wake:     make(chan struct{}, 1),
	}
}

// Submit enqueues a transcription job and returns the channel its Result
// will be delivered on. The channel is buffered, so an abandoned caller
// cannot block the consumer.
func (q *Queue) Submit(videoID string) <-chan Result {
	j := job{
		id:       uuid.NewString(),
		videoID:  videoID,
		enqueued: time.Now(),
		out:      make(chan Result, 1),
	}

	q.mu.Lock()
	q.pending = append(q.pending, j)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return j.out
}

// Depth returns the number of jobs waiting for their turn.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Start runs the consumer loop until the context is cancelled.
// It is meant to be launched once per process as a goroutine.
func (q *Queue) Start(ctx context.Context) {
	log.Info().Dur("cooldown", q.cooldown).Msg("transcription queue: starting")

	for {
		j, ok := q.pop()
		if !ok {
			select {
			case <-q.wake:
				continue
			case <-ctx.Done():
				q.drain(ctx.Err())
				log.Info().Msg("transcription queue: stopping")
				return
			}
		}

		j.out <- q.process(ctx, j)

		select {
		case <-time.After(q.cooldown):
		case <-ctx.Done():
			q.drain(ctx.Err())
			log.Info().Msg("transcription queue: stopping")
			return
		}
	}
}

func (q *Queue) pop() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return job{}, false
	}
	j := q.pending[0]
	q.pending = q.pending[1:]
	return j, true
}

// drain rejects everything still pending so no caller waits forever.
func (q *Queue) drain(err error) {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, j := range pending {
		j.out <- Result{Err: err}
	}
}

func (q *Queue) process(ctx context.Context, j job) Result {
	callCtx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	start := time.Now()
	raw, err := q.backend.Transcribe(callCtx, j.videoID)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, ErrInvalidVideo):
		// Not a queue failure: resolve empty so the caller can skip
		// analysis gracefully.
		log.Warn().Str("job", j.id).Str("video", j.videoID).
			Msg("transcription queue: backend rejected video url, resolving empty")
		return Result{Transcript: Transcript{}}
	case err != nil:
		log.Error().Err(err).Str("job", j.id).Str("video", j.videoID).
			Dur("elapsed", elapsed).
			Msg("transcription queue: job failed")
		return Result{Err: err}
	}

	t := Shape(raw)
	log.Info().Str("job", j.id).Str("video", j.videoID).
		Int("duration_s", t.Duration).
		Dur("waited", start.Sub(j.enqueued)).
		Dur("elapsed", elapsed).
		Msg("transcription queue: job complete")
	return Result{Transcript: t}
}
