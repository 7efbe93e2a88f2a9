package transcoder

import (
	"strings"
	"testing"
)

func TestMixMusicFilter(t *testing.T) {
	filter := mixMusicFilter(0.3)

	// mix ต้องจบตาม input ที่สั้นกว่า ไม่ใช่ยืดตาม music track
	if !strings.Contains(filter, "duration=shortest") {
		t.Errorf("expected duration=shortest in filter, got %q", filter)
	}
	if !strings.Contains(filter, "volume=0.30[music]") {
		t.Errorf("expected music volume 0.30, got %q", filter)
	}
	if !strings.Contains(filter, "amix=inputs=2") {
		t.Errorf("expected 2-input amix, got %q", filter)
	}
}

func TestEscapeDrawtext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`it's 50% off`, `it\'s 50\% off`},
		{`a:b`, `a\:b`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := escapeDrawtext(tt.in); got != tt.want {
			t.Errorf("escapeDrawtext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
