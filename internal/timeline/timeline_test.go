package timeline_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"captionscript/internal/srt"
	"captionscript/internal/timecode"
	"captionscript/internal/timeline"
)

var rate30 = timecode.Rate{Num: 30, Den: 1}

func sampleDescriptor() timeline.Descriptor {
	return timeline.Descriptor{
		Rate:       rate30,
		Width:      1920,
		Height:     1080,
		TrackIndex: 2,
		Assets: []timeline.Asset{
			{Index: 1, File: "cap_0001_000030.png", Span: timecode.Span{In: 30, Out: 105}},
			{Index: 2, File: "cap_0002_000120.png", Span: timecode.Span{In: 120, Out: 180}},
		},
	}
}

func TestValidateCuesRejectsOverlap(t *testing.T) {
	cues := []srt.Cue{
		{Index: 1, Span: timecode.Span{In: 0, Out: 90}},
		{Index: 2, Span: timecode.Span{In: 60, Out: 150}},
	}
	err := timeline.ValidateCues(cues)
	var overlap *timeline.OverlappingCueError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected OverlappingCueError, got %v", err)
	}
	if overlap.Previous != 1 || overlap.Cue != 2 {
		t.Fatalf("unexpected payload: %+v", overlap)
	}
}

func TestValidateCuesAcceptsAdjacent(t *testing.T) {
	cues := []srt.Cue{
		{Index: 1, Span: timecode.Span{In: 0, Out: 90}},
		{Index: 2, Span: timecode.Span{In: 90, Out: 150}},
	}
	if err := timeline.ValidateCues(cues); err != nil {
		t.Fatalf("adjacent cues must not overlap: %v", err)
	}
}

func TestWriteFCPXMLFrameAccurate(t *testing.T) {
	var buf bytes.Buffer
	if err := timeline.WriteFCPXML(&buf, sampleDescriptor()); err != nil {
		t.Fatalf("WriteFCPXML: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `<fcpxml version="1.6">`) {
		t.Fatalf("missing fcpxml root: %s", out)
	}
	if !strings.Contains(out, `frameDuration="1/30s"`) {
		t.Fatalf("missing rational frame duration: %s", out)
	}
	// Clip offsets and durations are expressed in frame units, not seconds.
	if !strings.Contains(out, `offset="30/30s"`) || !strings.Contains(out, `duration="75/30s"`) {
		t.Fatalf("missing frame-accurate clip timing: %s", out)
	}
	if !strings.Contains(out, `lane="2"`) {
		t.Fatalf("missing overlay track lane: %s", out)
	}
	if strings.Count(out, "<video ") != 2 {
		t.Fatalf("expected one clip per asset: %s", out)
	}
	if !strings.Contains(out, "<!DOCTYPE fcpxml>") {
		t.Fatalf("missing doctype: %s", out)
	}
}

func TestWriteFCPXMLRejectsOverlappingAssets(t *testing.T) {
	d := sampleDescriptor()
	d.Assets[1].Span = timecode.Span{In: 100, Out: 160}
	var buf bytes.Buffer
	err := timeline.WriteFCPXML(&buf, d)
	var overlap *timeline.OverlappingCueError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected OverlappingCueError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("no output should be written on validation failure")
	}
}

func TestWriteXMEML(t *testing.T) {
	var buf bytes.Buffer
	if err := timeline.WriteXMEML(&buf, sampleDescriptor(), "/tmp/out"); err != nil {
		t.Fatalf("WriteXMEML: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `<xmeml version="5">`) {
		t.Fatalf("missing xmeml root: %s", out)
	}
	if !strings.Contains(out, "<timebase>30</timebase>") || !strings.Contains(out, "<ntsc>FALSE</ntsc>") {
		t.Fatalf("missing rate block: %s", out)
	}
	if !strings.Contains(out, "<start>30</start>") || !strings.Contains(out, "<end>105</end>") {
		t.Fatalf("missing frame positions: %s", out)
	}
	if !strings.Contains(out, "file:///tmp/out/cap_0001_000030.png") {
		t.Fatalf("missing resolved path url: %s", out)
	}
	if !strings.Contains(out, "<alpha>straight</alpha>") {
		t.Fatalf("missing alpha mode: %s", out)
	}

	// Output must be well-formed XML.
	decoder := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("malformed XML: %v", err)
		}
	}
}

func TestWriteXMEMLNTSCRate(t *testing.T) {
	d := sampleDescriptor()
	d.Rate = timecode.Rate{Num: 30000, Den: 1001}
	var buf bytes.Buffer
	if err := timeline.WriteXMEML(&buf, d, t.TempDir()); err != nil {
		t.Fatalf("WriteXMEML: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<ntsc>TRUE</ntsc>") {
		t.Fatalf("NTSC flag missing: %s", out)
	}
	if !strings.Contains(out, "<timebase>30</timebase>") {
		t.Fatalf("timebase should round to 30: %s", out)
	}
}

func TestFormatFileName(t *testing.T) {
	if timeline.FormatFCPXML.FileName() != "captions.fcpxml" {
		t.Fatal("unexpected fcpxml file name")
	}
	if timeline.FormatXMEML.FileName() != "captions.xml" {
		t.Fatal("unexpected xmeml file name")
	}
	if timeline.Format("edl").Valid() {
		t.Fatal("unknown format must be invalid")
	}
}
