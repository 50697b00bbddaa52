package srt

import (
	"strconv"
	"strings"

	"captionscript/internal/timecode"
)

// Parse converts whole-file SRT bytes into ordered cues. Timestamps are
// resolved to frame spans using the caller-supplied frame rate; the rate is
// never inferred from the input.
func Parse(data []byte, rate timecode.Rate) ([]Cue, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var cues []Cue
	pos := 0
	for pos < len(lines) {
		// Skip blank separators between blocks.
		for pos < len(lines) && strings.TrimSpace(lines[pos]) == "" {
			pos++
		}
		if pos >= len(lines) {
			break
		}

		cue, next, err := parseBlock(lines, pos, rate)
		if err != nil {
			return nil, err
		}
		cues = append(cues, cue)
		pos = next
	}
	return cues, nil
}

// parseBlock consumes one SRT block starting at lines[pos] and returns the
// cue plus the position just past the block. Line numbers in errors are
// 1-based.
func parseBlock(lines []string, pos int, rate timecode.Rate) (Cue, int, error) {
	indexLine := strings.TrimSpace(lines[pos])
	index, err := strconv.Atoi(indexLine)
	if err != nil || index < 0 {
		return Cue{}, 0, &MalformedSubtitleError{Line: pos + 1, Reason: "expected numeric cue index, got " + strconv.Quote(indexLine)}
	}
	pos++

	if pos >= len(lines) || strings.TrimSpace(lines[pos]) == "" {
		return Cue{}, 0, &MalformedSubtitleError{Line: pos + 1, Reason: "missing timestamp line"}
	}
	startMS, endMS, err := parseTimingLine(lines[pos])
	if err != nil {
		return Cue{}, 0, &MalformedSubtitleError{Line: pos + 1, Reason: err.Error()}
	}
	if startMS >= endMS {
		return Cue{}, 0, &MalformedSubtitleError{Line: pos + 1, Reason: "cue start is not before its end"}
	}
	timingLine := pos + 1
	pos++

	// Collect text until the next fully blank separator followed by a new
	// block, treating interior blanks as line breaks.
	var textLines []string
	for pos < len(lines) {
		line := strings.TrimRight(lines[pos], " \t")
		if strings.TrimSpace(line) == "" {
			break
		}
		textLines = append(textLines, line)
		pos++
	}

	if len(textLines) == 0 {
		return Cue{}, 0, &MalformedSubtitleError{Line: timingLine + 1, Reason: "cue has no text"}
	}
	if len(textLines) > MaxLines {
		return Cue{}, 0, &TooManyLinesError{Block: index, Lines: len(textLines)}
	}

	return Cue{
		Index:   index,
		StartMS: startMS,
		EndMS:   endMS,
		Span:    timecode.ToSpan(startMS, endMS, rate),
		Lines:   textLines,
	}, pos, nil
}

func parseTimingLine(line string) (int64, int64, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, strErr("timestamp line missing '-->' separator")
	}
	start, err := parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp parses HH:MM:SS,mmm (or '.' as the millisecond separator)
// into milliseconds.
func parseTimestamp(value string) (int64, error) {
	sep := ","
	if !strings.Contains(value, ",") && strings.Contains(value, ".") {
		sep = "."
	}
	secMillis := strings.Split(value, sep)
	if len(secMillis) != 2 {
		return 0, strErr("timestamp " + strconv.Quote(value) + " missing millisecond component")
	}
	hms := strings.Split(secMillis[0], ":")
	if len(hms) != 3 {
		return 0, strErr("timestamp " + strconv.Quote(value) + " is not HH:MM:SS,mmm")
	}
	var fields [4]int64
	for i, raw := range []string{hms[0], hms[1], hms[2], secMillis[1]} {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || n < 0 {
			return 0, strErr("timestamp " + strconv.Quote(value) + " has a non-numeric component")
		}
		fields[i] = n
	}
	return ((fields[0]*60+fields[1])*60+fields[2])*1000 + fields[3], nil
}

type strErr string

func (e strErr) Error() string { return string(e) }
