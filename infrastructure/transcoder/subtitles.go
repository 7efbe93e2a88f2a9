package transcoder

import (
	"fmt"
	"strings"
	"time"
)

// maxCueChars จำกัดความยาวข้อความต่อ cue ไม่ให้ล้นจอ
const maxCueChars = 80

// SubtitleCue หนึ่ง cue ใน SRT timeline
type SubtitleCue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// BuildCues ตัด script เป็น cues เรียงต่อกันบน timeline
// แบ่งตามประโยคก่อน ประโยคยาวเกิน maxCueChars ตัดที่ word boundary
func BuildCues(script string, secondsPerCue float64) []SubtitleCue {
	if secondsPerCue <= 0 {
		secondsPerCue = 3.0
	}

	chunks := []string{}
	for _, sentence := range splitSentences(script) {
		chunks = append(chunks, splitLongChunk(sentence)...)
	}

	cueDuration := time.Duration(secondsPerCue * float64(time.Second))
	cues := make([]SubtitleCue, 0, len(chunks))
	for i, text := range chunks {
		start := time.Duration(i) * cueDuration
		cues = append(cues, SubtitleCue{
			Index: i + 1,
			Start: start,
			End:   start + cueDuration,
			Text:  text,
		})
	}
	return cues
}

// FormatSRT แปลง cues เป็นเนื้อหาไฟล์ SRT
func FormatSRT(cues []SubtitleCue) string {
	var b strings.Builder
	for _, cue := range cues {
		b.WriteString(fmt.Sprintf("%d\n", cue.Index))
		b.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTimestamp(cue.Start), formatSRTTimestamp(cue.End)))
		b.WriteString(cue.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// formatSRTTimestamp แปลง duration เป็น "HH:MM:SS,mmm"
func formatSRTTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// splitSentences แบ่ง script ตาม sentence boundaries และ newlines
func splitSentences(script string) []string {
	sentences := []string{}
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range script {
		switch r {
		case '\n':
			flush()
		case '.', '!', '?':
			current.WriteRune(r)
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return sentences
}

// splitLongChunk ตัดประโยคยาวที่ word boundary ไม่ให้เกิน maxCueChars
func splitLongChunk(sentence string) []string {
	if len(sentence) <= maxCueChars {
		return []string{sentence}
	}

	words := strings.Fields(sentence)
	chunks := []string{}
	var current strings.Builder

	for _, word := range words {
		if current.Len() > 0 && current.Len()+1+len(word) > maxCueChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
