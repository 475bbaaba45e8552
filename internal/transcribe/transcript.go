package transcribe

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxDuration caps how much content downstream consumers ever see: 30 minutes.
// Longer transcripts are truncated and the reported duration is clamped.
const MaxDuration = 1800

// Transcript is the shaped output of one transcription call. Text carries the
// timestamp-free view used for prompting; WithTimestamps keeps the per-line
// stamps for diagnostics. Duration is in seconds, never above MaxDuration.
type Transcript struct {
	Text           string
	WithTimestamps string
	Duration       int
}

// Empty reports whether the transcript carries no usable content.
func (t Transcript) Empty() bool {
	return t.Text == "" && t.Duration == 0
}

var (
	// The transcription backend prefixes each response with a metadata banner.
	headerPattern    = regexp.MustCompile(`TRANSCRIÇÃO DO VÍDEO\nID:.*\nData:.*\n={1,}\n\n`)
	timestampPattern = regexp.MustCompile(`\[(\d{2}):(\d{2}):(\d{2})\]`)
	stampStripper    = regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\]\s*`)
)

// Shape strips the backend banner, derives the duration from the last
// embedded timestamp and enforces the duration cap. For a transcript whose
// last stamp exceeds MaxDuration, every line past the cap is dropped and the
// capped duration is reported, never the true one.
func Shape(raw string) Transcript {
	cleaned := headerPattern.ReplaceAllString(raw, "")

	duration := 0
	stamps := timestampPattern.FindAllStringSubmatch(cleaned, -1)
	if len(stamps) > 0 {
		duration = stampSeconds(stamps[len(stamps)-1])
	}

	if duration > MaxDuration {
		var kept []string
		for _, line := range strings.Split(cleaned, "\n") {
			m := timestampPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if stampSeconds(m) <= MaxDuration {
				kept = append(kept, line)
			}
		}
		limited := strings.Join(kept, "\n")
		return Transcript{
			Text:           stampStripper.ReplaceAllString(limited, ""),
			WithTimestamps: limited,
			Duration:       MaxDuration,
		}
	}

	return Transcript{
		Text:           stampStripper.ReplaceAllString(cleaned, ""),
		WithTimestamps: cleaned,
		Duration:       duration,
	}
}

func stampSeconds(m []string) int {
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	return h*3600 + min*60 + s
}
