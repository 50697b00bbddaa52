package srt_test

import (
	"errors"
	"testing"

	"captionscript/internal/srt"
	"captionscript/internal/timecode"
)

var rate30 = timecode.Rate{Num: 30, Den: 1}

const sampleSRT = `1
00:00:01,000 --> 00:00:03,500
THE QUICK BROWN FOX JUMPS

2
00:00:04,000 --> 00:00:06,000
FIRST LINE
SECOND LINE
`

func TestParseWellFormed(t *testing.T) {
	cues, err := srt.Parse([]byte(sampleSRT), rate30)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}

	first := cues[0]
	if first.Index != 1 || first.StartMS != 1000 || first.EndMS != 3500 {
		t.Fatalf("unexpected first cue: %+v", first)
	}
	if first.Span.In != 30 || first.Span.Out != 105 {
		t.Fatalf("unexpected frame span: %+v", first.Span)
	}
	if len(first.Lines) != 1 || first.Lines[0] != "THE QUICK BROWN FOX JUMPS" {
		t.Fatalf("unexpected lines: %q", first.Lines)
	}

	second := cues[1]
	if len(second.Lines) != 2 || second.Lines[1] != "SECOND LINE" {
		t.Fatalf("unexpected second cue lines: %q", second.Lines)
	}
	if second.DurationMS() != 2000 {
		t.Fatalf("unexpected duration: %d", second.DurationMS())
	}
}

func TestParseStripsBOMAndCRLF(t *testing.T) {
	input := "\ufeff1\r\n00:00:00,500 --> 00:00:01,500\r\nHELLO\r\n"
	cues, err := srt.Parse([]byte(input), rate30)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cues) != 1 || cues[0].Lines[0] != "HELLO" {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestParseAcceptsDotMillisecondSeparator(t *testing.T) {
	input := "1\n00:00:01.250 --> 00:00:02.750\nHI\n"
	cues, err := srt.Parse([]byte(input), rate30)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cues[0].StartMS != 1250 || cues[0].EndMS != 2750 {
		t.Fatalf("unexpected times: %+v", cues[0])
	}
}

func TestParseMalformedBlocks(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"bad index", "one\n00:00:01,000 --> 00:00:02,000\nHI\n", 1},
		{"missing timestamps", "1\nHELLO THERE\nHI\n", 2},
		{"bad timestamp", "1\n00:00:01 --> 00:00:02,000\nHI\n", 2},
		{"start after end", "1\n00:00:05,000 --> 00:00:02,000\nHI\n", 2},
		{"no text", "1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:03,000 --> 00:00:04,000\nHI\n", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := srt.Parse([]byte(tc.input), rate30)
			var malformed *srt.MalformedSubtitleError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedSubtitleError, got %v", err)
			}
			if malformed.Line != tc.wantLine {
				t.Fatalf("expected line %d, got %d (%v)", tc.wantLine, malformed.Line, err)
			}
		})
	}
}

func TestParseRejectsThreeLineBlock(t *testing.T) {
	input := `1
00:00:01,000 --> 00:00:02,000
ONE

2
00:00:03,000 --> 00:00:04,000
LINE A
LINE B
LINE C
`
	_, err := srt.Parse([]byte(input), rate30)
	var tooMany *srt.TooManyLinesError
	if !errors.As(err, &tooMany) {
		t.Fatalf("expected TooManyLinesError, got %v", err)
	}
	if tooMany.Block != 2 || tooMany.Lines != 3 {
		t.Fatalf("unexpected error payload: %+v", tooMany)
	}
}

func TestParseRejectsInvalidRate(t *testing.T) {
	if _, err := srt.Parse([]byte(sampleSRT), timecode.Rate{}); err == nil {
		t.Fatal("expected error for zero frame rate")
	}
}

func TestSplitLongLines(t *testing.T) {
	cues := []srt.Cue{
		{Index: 1, Lines: []string{"A VERY LONG CAPTION LINE INDEED"}},
		{Index: 2, Lines: []string{"SHORT"}},
		{Index: 3, Lines: []string{"ALREADY", "SPLIT"}},
	}
	out := srt.SplitLongLines(cues, 16)

	if len(out[0].Lines) != 2 {
		t.Fatalf("expected long line split, got %q", out[0].Lines)
	}
	if out[0].Lines[0] != "A VERY LONG" || out[0].Lines[1] != "CAPTION LINE INDEED" {
		t.Fatalf("unexpected balance: %q", out[0].Lines)
	}
	if len(out[1].Lines) != 1 || len(out[2].Lines) != 2 {
		t.Fatalf("short and pre-split cues must pass through: %+v", out)
	}
	// Input is not mutated.
	if len(cues[0].Lines) != 1 {
		t.Fatalf("input slice mutated: %q", cues[0].Lines)
	}
}

func TestSplitLongLinesKeepsDigitGroupsTogether(t *testing.T) {
	cues := []srt.Cue{{Index: 1, Lines: []string{"BITRATE OF 128 000 TODAY"}}}
	out := srt.SplitLongLines(cues, 10)
	if len(out[0].Lines) != 2 {
		t.Fatalf("expected split, got %q", out[0].Lines)
	}
	joined := out[0].Lines[0] + "|" + out[0].Lines[1]
	if joined != "BITRATE OF|128 000 TODAY" {
		t.Fatalf("digit group split across lines: %q", out[0].Lines)
	}
}

func TestSplitLongLinesSingleTokenUnchanged(t *testing.T) {
	cues := []srt.Cue{{Index: 1, Lines: []string{"SUPERCALIFRAGILISTICEXPIALIDOCIOUS"}}}
	out := srt.SplitLongLines(cues, 16)
	if len(out[0].Lines) != 1 {
		t.Fatalf("single token must not split: %q", out[0].Lines)
	}
}
