package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

// ErrInvalidVideo means the backend could not resolve the video URL. The
// queue treats this as an empty transcript, not a failure.
var ErrInvalidVideo = errors.New("backend rejected video url")

// CallTimeout bounds a single transcription call. Exceeding it is a
// rejection, not a retry.
const CallTimeout = 5 * time.Minute

// Backend performs one transcription call and returns the raw transcript
// text. Implemented by BackendClient; faked in tests.
type Backend interface {
	Transcribe(ctx context.Context, videoID string) (string, error)
}

// BackendClient talks to the external transcription service. The service is
// slow and stateful; callers must serialize access through the Queue.
type BackendClient struct {
	http *http.Client
	url  string
}

func NewBackendClient(url string) *BackendClient {
	return &BackendClient{
		http: &http.Client{Timeout: CallTimeout},
		url:  url,
	}
}

// Transcribe posts the video's watch URL and returns the raw transcript.
// An "invalid URL" rejection comes back as ErrInvalidVideo; any other
// backend failure is transient.
func (c *BackendClient) Transcribe(ctx context.Context, videoID string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"url": "https://www.youtube.com/watch?v=" + videoID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: transcription call: %v", model.ErrTransient, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Transcription string `json:"transcription"`
		Detail        string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: transcription response: %v", model.ErrParse, err)
	}

	if payload.Detail != "" {
		if strings.Contains(payload.Detail, "URL do YouTube inválida") {
			return "", ErrInvalidVideo
		}
		return "", fmt.Errorf("%w: transcription backend: %s", model.ErrTransient, payload.Detail)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: transcription backend returned %d", model.ErrTransient, resp.StatusCode)
	}

	return payload.Transcription, nil
}
