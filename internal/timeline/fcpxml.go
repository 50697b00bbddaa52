package timeline

import (
	"encoding/xml"
	"fmt"
	"io"
)

// FCPXML 1.6 document structure. Times are rational seconds in frame units
// ("450/30s"), so the receiving editor aligns clips exactly.

type fcpDocument struct {
	XMLName   xml.Name     `xml:"fcpxml"`
	Version   string       `xml:"version,attr"`
	Resources fcpResources `xml:"resources"`
	Library   fcpLibrary   `xml:"library"`
}

type fcpResources struct {
	Format fcpFormat  `xml:"format"`
	Assets []fcpAsset `xml:"asset"`
}

type fcpFormat struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         int    `xml:"width,attr"`
	Height        int    `xml:"height,attr"`
}

type fcpAsset struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	Src      string `xml:"src,attr"`
	HasVideo string `xml:"hasVideo,attr"`
	Format   string `xml:"format,attr"`
}

type fcpLibrary struct {
	Event fcpEvent `xml:"event"`
}

type fcpEvent struct {
	Name    string     `xml:"name,attr"`
	Project fcpProject `xml:"project"`
}

type fcpProject struct {
	Name     string      `xml:"name,attr"`
	Sequence fcpSequence `xml:"sequence"`
}

type fcpSequence struct {
	Format   string   `xml:"format,attr"`
	Duration string   `xml:"duration,attr"`
	Spine    fcpSpine `xml:"spine"`
}

type fcpSpine struct {
	Gap    *fcpGap  `xml:"gap,omitempty"`
	Videos []fcpClip `xml:"video"`
}

type fcpGap struct {
	Offset   string `xml:"offset,attr"`
	Duration string `xml:"duration,attr"`
}

type fcpClip struct {
	Name     string `xml:"name,attr"`
	Offset   string `xml:"offset,attr"`
	Ref      string `xml:"ref,attr"`
	Duration string `xml:"duration,attr"`
	Lane     int    `xml:"lane,attr"`
}

// WriteFCPXML emits the descriptor as FCPXML 1.6. Entries must already
// satisfy Validate.
func WriteFCPXML(w io.Writer, d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	frames := func(n int64) string {
		return fmt.Sprintf("%d/%ds", n*d.Rate.Den, d.Rate.Num)
	}

	doc := fcpDocument{
		Version: "1.6",
		Resources: fcpResources{
			Format: fcpFormat{
				ID:            "r1",
				Name:          fmt.Sprintf("FFVideoFormat%dp%d", d.Height, int(d.Rate.FPS()+0.5)),
				FrameDuration: fmt.Sprintf("%d/%ds", d.Rate.Den, d.Rate.Num),
				Width:         d.Width,
				Height:        d.Height,
			},
		},
		Library: fcpLibrary{
			Event: fcpEvent{
				Name: "Caption Import",
				Project: fcpProject{
					Name: "Caption Sequence",
					Sequence: fcpSequence{
						Format:   "r1",
						Duration: frames(d.Duration()),
					},
				},
			},
		},
	}

	if total := d.Duration(); total > 0 {
		doc.Library.Event.Project.Sequence.Spine.Gap = &fcpGap{
			Offset:   frames(0),
			Duration: frames(total),
		}
	}

	for i, asset := range d.Assets {
		ref := fmt.Sprintf("r%d", i+2)
		doc.Resources.Assets = append(doc.Resources.Assets, fcpAsset{
			ID:       ref,
			Name:     asset.File,
			Src:      "file://./" + asset.File,
			HasVideo: "1",
			Format:   "r1",
		})
		doc.Library.Event.Project.Sequence.Spine.Videos = append(
			doc.Library.Event.Project.Sequence.Spine.Videos,
			fcpClip{
				Name:     asset.File,
				Offset:   frames(asset.Span.In),
				Ref:      ref,
				Duration: frames(asset.Span.Frames()),
				Lane:     d.TrackIndex,
			},
		)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<!DOCTYPE fcpxml>\n"); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode fcpxml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
