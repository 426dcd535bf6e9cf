// Package transcript normalizes chunk payloads from transcription workers.
// Workers emit whichever caption format their engine produces; everything is
// reduced to plain text before it enters the merge pipeline.
package transcript

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Format identifies the encoding of a chunk payload
type Format string

const (
	FormatText Format = "text"
	FormatVTT  Format = "vtt"
	FormatSRT  Format = "srt"
	FormatJSON Format = "json"
)

// ParseFormat validates a payload format supplied by a worker.
// An empty string means plain text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatVTT:
		return FormatVTT, nil
	case FormatSRT:
		return FormatSRT, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported payload format: %q", s)
	}
}

// Segment is a single timed cue from a caption payload
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Parsed is the normalized form of a chunk payload
type Parsed struct {
	Format    Format
	Segments  []Segment
	PlainText string
	Duration  time.Duration
}

// Parse reduces a chunk payload to plain text plus timing metadata
func Parse(content string, format Format) (*Parsed, error) {
	switch format {
	case FormatVTT:
		return parseVTT(content)
	case FormatSRT:
		return parseSRT(content)
	case FormatJSON:
		return parseJSON(content)
	case FormatText, "":
		return &Parsed{Format: FormatText, PlainText: strings.TrimSpace(content)}, nil
	default:
		return nil, fmt.Errorf("unsupported payload format: %q", format)
	}
}

var (
	vttTimestampRegex = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}\.\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}\.\d{3})`)
	srtTimestampRegex = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
	srtSequenceRegex  = regexp.MustCompile(`^\d+$`)
	vttVoiceTagRegex  = regexp.MustCompile(`<v[^>]*>`)
)

func parseVTT(content string) (*Parsed, error) {
	parsed := &Parsed{Format: FormatVTT}

	var current *Segment
	var cueText strings.Builder

	flush := func() {
		if current != nil && cueText.Len() > 0 {
			current.Text = strings.TrimSpace(cueText.String())
			parsed.Segments = append(parsed.Segments, *current)
			cueText.Reset()
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") {
			continue
		}

		if matches := vttTimestampRegex.FindStringSubmatch(line); matches != nil {
			flush()
			start, _ := parseVTTTimestamp(matches[1])
			end, _ := parseVTTTimestamp(matches[2])
			current = &Segment{Start: start, End: end}
			continue
		}

		if current != nil && !strings.Contains(line, "-->") {
			if cueText.Len() > 0 {
				cueText.WriteString(" ")
			}
			cueText.WriteString(stripVTTTags(line))
		}
	}
	flush()

	finalize(parsed)
	return parsed, nil
}

func parseSRT(content string) (*Parsed, error) {
	parsed := &Parsed{Format: FormatSRT}

	var current *Segment
	var cueText strings.Builder

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			if current != nil && cueText.Len() > 0 {
				current.Text = strings.TrimSpace(cueText.String())
				parsed.Segments = append(parsed.Segments, *current)
				cueText.Reset()
				current = nil
			}
			continue
		}

		if srtSequenceRegex.MatchString(line) {
			continue
		}

		if matches := srtTimestampRegex.FindStringSubmatch(line); matches != nil {
			start, _ := parseSRTTimestamp(matches[1])
			end, _ := parseSRTTimestamp(matches[2])
			current = &Segment{Start: start, End: end}
			continue
		}

		if current != nil {
			if cueText.Len() > 0 {
				cueText.WriteString(" ")
			}
			cueText.WriteString(line)
		}
	}

	if current != nil && cueText.Len() > 0 {
		current.Text = strings.TrimSpace(cueText.String())
		parsed.Segments = append(parsed.Segments, *current)
	}

	finalize(parsed)
	return parsed, nil
}

// jsonSegment tolerates the field spellings used by different engines
type jsonSegment struct {
	Start     float64 `json:"start"`
	StartTime float64 `json:"start_time"`
	End       float64 `json:"end"`
	EndTime   float64 `json:"end_time"`
	Text      string  `json:"text"`
}

func parseJSON(content string) (*Parsed, error) {
	var segments []jsonSegment
	if err := json.Unmarshal([]byte(content), &segments); err != nil {
		var wrapper struct {
			Segments []jsonSegment `json:"segments"`
		}
		if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse JSON payload: %w", err)
		}
		segments = wrapper.Segments
	}

	parsed := &Parsed{Format: FormatJSON}
	for _, seg := range segments {
		start := seg.Start
		if start == 0 && seg.StartTime > 0 {
			start = seg.StartTime
		}
		end := seg.End
		if end == 0 && seg.EndTime > 0 {
			end = seg.EndTime
		}

		parsed.Segments = append(parsed.Segments, Segment{
			Start: time.Duration(start * float64(time.Second)),
			End:   time.Duration(end * float64(time.Second)),
			Text:  strings.TrimSpace(seg.Text),
		})
	}

	finalize(parsed)
	return parsed, nil
}

// finalize derives PlainText and Duration from the segment list
func finalize(p *Parsed) {
	var full strings.Builder
	for _, seg := range p.Segments {
		if seg.Text == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(seg.Text)
	}
	p.PlainText = full.String()

	if n := len(p.Segments); n > 0 {
		p.Duration = p.Segments[n-1].End
	}
}

// parseVTTTimestamp parses HH:MM:SS.mmm
func parseVTTTimestamp(timestamp string) (time.Duration, error) {
	parts := strings.Split(timestamp, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", timestamp)
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	secParts := strings.Split(parts[2], ".")
	seconds, _ := strconv.Atoi(secParts[0])
	milliseconds := 0
	if len(secParts) > 1 {
		milliseconds, _ = strconv.Atoi(secParts[1])
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(milliseconds)*time.Millisecond, nil
}

// parseSRTTimestamp parses HH:MM:SS,mmm
func parseSRTTimestamp(timestamp string) (time.Duration, error) {
	return parseVTTTimestamp(strings.Replace(timestamp, ",", ".", 1))
}

func stripVTTTags(text string) string {
	text = vttVoiceTagRegex.ReplaceAllString(text, "")
	for _, tag := range []string{"</v>", "<i>", "</i>", "<b>", "</b>", "<u>", "</u>"} {
		text = strings.ReplaceAll(text, tag, "")
	}
	return strings.TrimSpace(text)
}
