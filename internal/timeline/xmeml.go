package timeline

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
)

// Legacy FCP 7 sequence XML (XMEML version 5) for Premiere Pro imports.
// Frame positions are plain integers against the sequence timebase.

type xmemlDocument struct {
	XMLName  xml.Name      `xml:"xmeml"`
	Version  string        `xml:"version,attr"`
	Sequence xmemlSequence `xml:"sequence"`
}

type xmemlSequence struct {
	ID       string        `xml:"id,attr"`
	Name     string        `xml:"name"`
	Rate     xmemlRate     `xml:"rate"`
	Duration int64         `xml:"duration"`
	Timecode xmemlTimecode `xml:"timecode"`
	Media    xmemlMedia    `xml:"media"`
}

type xmemlRate struct {
	Timebase int    `xml:"timebase"`
	NTSC     string `xml:"ntsc"`
}

type xmemlTimecode struct {
	Rate          xmemlRate `xml:"rate"`
	String        string    `xml:"string"`
	Frame         int64     `xml:"frame"`
	DisplayFormat string    `xml:"displayformat"`
}

type xmemlMedia struct {
	Video xmemlVideo `xml:"video"`
}

type xmemlVideo struct {
	Format xmemlFormat `xml:"format"`
	Track  xmemlTrack  `xml:"track"`
}

type xmemlFormat struct {
	SampleCharacteristics xmemlSampleCharacteristics `xml:"samplecharacteristics"`
}

type xmemlSampleCharacteristics struct {
	Width            int    `xml:"width"`
	Height           int    `xml:"height"`
	Anamorphic       string `xml:"anamorphic,omitempty"`
	PixelAspectRatio string `xml:"pixelaspectratio"`
	FieldDominance   string `xml:"fielddominance,omitempty"`
}

type xmemlTrack struct {
	ClipItems []xmemlClipItem `xml:"clipitem"`
}

type xmemlClipItem struct {
	ID          string           `xml:"id,attr"`
	Name        string           `xml:"name"`
	Rate        xmemlRate        `xml:"rate"`
	Duration    int64            `xml:"duration"`
	Start       int64            `xml:"start"`
	End         int64            `xml:"end"`
	In          int64            `xml:"in"`
	Out         int64            `xml:"out"`
	SourceTrack xmemlSourceTrack `xml:"sourcetrack"`
	Alpha       string           `xml:"alpha"`
	File        xmemlFile        `xml:"file"`
}

type xmemlSourceTrack struct {
	MediaType  string `xml:"mediatype"`
	TrackIndex int    `xml:"trackindex"`
}

type xmemlFile struct {
	ID      string         `xml:"id,attr"`
	Name    string         `xml:"name"`
	PathURL string         `xml:"pathurl"`
	Rate    xmemlRate      `xml:"rate"`
	Media   xmemlFileMedia `xml:"media"`
}

type xmemlFileMedia struct {
	Video xmemlFileVideo `xml:"video"`
}

type xmemlFileVideo struct {
	Duration              int64                      `xml:"duration"`
	SampleCharacteristics xmemlSampleCharacteristics `xml:"samplecharacteristics"`
}

// WriteXMEML emits the descriptor as FCP 7 XMEML. Asset path URLs are
// resolved against baseDir so the editor can locate the PNGs.
func WriteXMEML(w io.Writer, d Descriptor, baseDir string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	timebase := int((d.Rate.FPS()) + 0.5)
	ntsc := "FALSE"
	if d.Rate.Den != 1 {
		ntsc = "TRUE"
	}
	rate := xmemlRate{Timebase: timebase, NTSC: ntsc}

	doc := xmemlDocument{
		Version: "5",
		Sequence: xmemlSequence{
			ID:       "CaptionTimeline",
			Name:     "CaptionTimeline",
			Rate:     rate,
			Duration: d.Duration(),
			Timecode: xmemlTimecode{
				Rate:          rate,
				String:        "00:00:00:00",
				Frame:         0,
				DisplayFormat: "NDF",
			},
			Media: xmemlMedia{
				Video: xmemlVideo{
					Format: xmemlFormat{
						SampleCharacteristics: xmemlSampleCharacteristics{
							Width:            d.Width,
							Height:           d.Height,
							Anamorphic:       "FALSE",
							PixelAspectRatio: "square",
							FieldDominance:   "none",
						},
					},
				},
			},
		},
	}

	for i, asset := range d.Assets {
		absPath, err := filepath.Abs(filepath.Join(baseDir, asset.File))
		if err != nil {
			return fmt.Errorf("resolve asset path %q: %w", asset.File, err)
		}
		pathURL := (&url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}).String()

		duration := asset.Span.Frames()
		doc.Sequence.Media.Video.Track.ClipItems = append(doc.Sequence.Media.Video.Track.ClipItems, xmemlClipItem{
			ID:       fmt.Sprintf("cap_%04d", i+1),
			Name:     asset.File,
			Rate:     rate,
			Duration: duration,
			Start:    asset.Span.In,
			End:      asset.Span.Out,
			In:       0,
			Out:      duration,
			SourceTrack: xmemlSourceTrack{
				MediaType:  "video",
				TrackIndex: 1,
			},
			Alpha: "straight",
			File: xmemlFile{
				ID:      fmt.Sprintf("file-%04d", i+1),
				Name:    asset.File,
				PathURL: pathURL,
				Rate:    rate,
				Media: xmemlFileMedia{
					Video: xmemlFileVideo{
						Duration: duration,
						SampleCharacteristics: xmemlSampleCharacteristics{
							Width:            d.Width,
							Height:           d.Height,
							PixelAspectRatio: "square",
						},
					},
				},
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode xmeml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Write emits the descriptor in the selected format.
func Write(w io.Writer, d Descriptor, format Format, baseDir string) error {
	switch format {
	case FormatXMEML:
		return WriteXMEML(w, d, baseDir)
	case FormatFCPXML, "":
		return WriteFCPXML(w, d)
	default:
		return fmt.Errorf("unknown timeline format %q", format)
	}
}
