package transcoder

import (
	"strings"
	"testing"
	"time"
)

func TestBuildCues_SequentialTimeline(t *testing.T) {
	script := "First sentence. Second sentence! Third sentence?"
	cues := BuildCues(script, 3.0)

	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}

	for i, cue := range cues {
		expectedStart := time.Duration(i) * 3 * time.Second
		if cue.Start != expectedStart {
			t.Errorf("cue %d: expected start %v, got %v", i, expectedStart, cue.Start)
		}
		if cue.End != expectedStart+3*time.Second {
			t.Errorf("cue %d: expected end %v, got %v", i, expectedStart+3*time.Second, cue.End)
		}
		if cue.Index != i+1 {
			t.Errorf("cue %d: expected index %d, got %d", i, i+1, cue.Index)
		}
	}

	if cues[0].Text != "First sentence." {
		t.Errorf("unexpected first cue text: %q", cues[0].Text)
	}
}

func TestBuildCues_SplitsOnNewlines(t *testing.T) {
	script := "Line one\nLine two\n\nLine three"
	cues := BuildCues(script, 2.0)

	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if cues[1].Text != "Line two" {
		t.Errorf("unexpected second cue text: %q", cues[1].Text)
	}
}

func TestBuildCues_LongSentenceSplitAtWordBoundary(t *testing.T) {
	// ประโยคเดียวยาวกว่า maxCueChars ต้องถูกตัดเป็นหลาย cue
	long := strings.Repeat("word ", 40) + "end."
	cues := BuildCues(long, 3.0)

	if len(cues) < 2 {
		t.Fatalf("expected long sentence to split into multiple cues, got %d", len(cues))
	}
	for _, cue := range cues {
		if len(cue.Text) > maxCueChars {
			t.Errorf("cue text exceeds %d chars: %q", maxCueChars, cue.Text)
		}
		if strings.HasPrefix(cue.Text, " ") || strings.HasSuffix(cue.Text, " ") {
			t.Errorf("cue text has leading/trailing space: %q", cue.Text)
		}
	}
}

func TestBuildCues_EmptyScript(t *testing.T) {
	if cues := BuildCues("", 3.0); len(cues) != 0 {
		t.Errorf("expected no cues for empty script, got %d", len(cues))
	}
	if cues := BuildCues("   \n  ", 3.0); len(cues) != 0 {
		t.Errorf("expected no cues for whitespace script, got %d", len(cues))
	}
}

func TestBuildCues_DefaultDuration(t *testing.T) {
	cues := BuildCues("Hello world.", 0)
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].End != 3*time.Second {
		t.Errorf("expected default 3s cue duration, got %v", cues[0].End)
	}
}

func TestFormatSRT(t *testing.T) {
	cues := []SubtitleCue{
		{Index: 1, Start: 0, End: 3 * time.Second, Text: "Hello"},
		{Index: 2, Start: 3 * time.Second, End: 6 * time.Second, Text: "World"},
	}

	srt := FormatSRT(cues)

	expected := "1\n00:00:00,000 --> 00:00:03,000\nHello\n\n2\n00:00:03,000 --> 00:00:06,000\nWorld\n\n"
	if srt != expected {
		t.Errorf("unexpected SRT output:\ngot:\n%s\nwant:\n%s", srt, expected)
	}
}

func TestFormatSRTTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"zero", 0, "00:00:00,000"},
		{"seconds", 5 * time.Second, "00:00:05,000"},
		{"with millis", 1*time.Second + 500*time.Millisecond, "00:00:01,500"},
		{"minutes", 90 * time.Second, "00:01:30,000"},
		{"hours", time.Hour + 2*time.Minute + 3*time.Second, "01:02:03,000"},
		{"negative clamps to zero", -5 * time.Second, "00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSRTTimestamp(tt.d); got != tt.expected {
				t.Errorf("formatSRTTimestamp(%v) = %q, want %q", tt.d, got, tt.expected)
			}
		})
	}
}

func TestEscapeDrawtextTable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Brand Name", "Brand Name"},
		{"colon", "time: now", `time\: now`},
		{"quote", "it's here", `it\'s here`},
		{"percent", "100% off", `100\% off`},
		{"backslash first", `a\b`, `a\\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeDrawtext(tt.input); got != tt.expected {
				t.Errorf("escapeDrawtext(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWatermarkExpr(t *testing.T) {
	x, y := watermarkExpr("bottom_right")
	if x != "w-tw-20" || y != "h-th-20" {
		t.Errorf("bottom_right: got x=%q y=%q", x, y)
	}

	x, y = watermarkExpr("center")
	if x != "(w-tw)/2" || y != "(h-th)/2" {
		t.Errorf("center: got x=%q y=%q", x, y)
	}

	// ตำแหน่งไม่รู้จัก fallback เป็น bottom_right
	x, y = watermarkExpr("unknown")
	if x != "w-tw-20" || y != "h-th-20" {
		t.Errorf("unknown position fallback: got x=%q y=%q", x, y)
	}
}
