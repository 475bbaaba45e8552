package transcribe

import (
	"fmt"
	"strings"
	"testing"
)

func makeTranscript(lines int, step int) string {
	var b strings.Builder
	for i := 1; i <= lines; i++ {
		s := i * step
		fmt.Fprintf(&b, "[%02d:%02d:%02d] line %d\n", s/3600, (s%3600)/60, s%60, i)
	}
	return b.String()
}

func TestShape_Duration(t *testing.T) {
	// Stamps every 30s up to [00:10:00]
	tr := Shape(makeTranscript(20, 30))
	if tr.Duration != 600 {
		t.Errorf("duration = %d, want 600", tr.Duration)
	}
}

func TestShape_CapAt1800(t *testing.T) {
	// Stamps every 60s up to [00:45:00] (2700s), past the cap
	tr := Shape(makeTranscript(45, 60))

	if tr.Duration != MaxDuration {
		t.Errorf("duration = %d, want capped %d", tr.Duration, MaxDuration)
	}
	if strings.Contains(tr.WithTimestamps, "[00:31:00]") {
		t.Error("timestamped view contains a line past the cap")
	}
	if !strings.Contains(tr.WithTimestamps, "[00:30:00]") {
		t.Error("timestamped view lost the line exactly at the cap")
	}
	if strings.Contains(tr.Text, "line 31") {
		t.Error("plain view contains content past the cap")
	}
}

func TestShape_ReportedDurationIsMin(t *testing.T) {
	cases := []struct {
		lines, step, want int
	}{
		{10, 10, 100},           // 100s, under cap
		{1, 1800, MaxDuration},  // exactly at cap
		{100, 60, MaxDuration},  // 6000s, capped
	}
	for _, c := range cases {
		tr := Shape(makeTranscript(c.lines, c.step))
		if tr.Duration != c.want {
			t.Errorf("lines=%d step=%d: duration = %d, want %d", c.lines, c.step, tr.Duration, c.want)
		}
	}
}

func TestShape_StripsBackendBanner(t *testing.T) {
	raw := "TRANSCRIÇÃO DO VÍDEO\nID: abc123\nData: 2024-01-01\n====\n\n[00:00:05] hello\n"
	tr := Shape(raw)
	if strings.Contains(tr.Text, "TRANSCRIÇÃO") {
		t.Error("banner survived shaping")
	}
	if !strings.Contains(tr.Text, "hello") {
		t.Error("content lost while stripping banner")
	}
}

func TestShape_TwoViews(t *testing.T) {
	tr := Shape("[00:00:05] hello\n[00:00:10] world\n")
	if strings.Contains(tr.Text, "[00:00:05]") {
		t.Error("plain view still carries timestamps")
	}
	if !strings.Contains(tr.WithTimestamps, "[00:00:10]") {
		t.Error("timestamped view lost its stamps")
	}
	if tr.Duration != 10 {
		t.Errorf("duration = %d, want 10", tr.Duration)
	}
}

func TestShape_NoTimestamps(t *testing.T) {
	tr := Shape("plain text with no stamps")
	if tr.Duration != 0 {
		t.Errorf("duration = %d, want 0", tr.Duration)
	}
	if tr.Text != "plain text with no stamps" {
		t.Errorf("text mangled: %q", tr.Text)
	}
}

func TestShape_EmptyInput(t *testing.T) {
	tr := Shape("")
	if !tr.Empty() {
		t.Error("empty input did not produce an empty transcript")
	}
}
