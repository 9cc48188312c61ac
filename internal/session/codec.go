// Package session serializes a studio to JSONL and moves session files on
// and off disk.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hpungsan/aas/internal/asciiimage"
	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/raster"
	"github.com/hpungsan/aas/internal/studio"
)

// SchemaVersion is written to every header.
const SchemaVersion = "1.0"

// Header is the first line of a session payload.
type Header struct {
	AASSession    bool   `json:"_aas_session"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
	Current       string `json:"current,omitempty"`
	Count         int    `json:"count"`
}

// Record is one image. Pixels hold the adjusted raster, base64 encoded by encoding/json.
type Record struct {
	Key          string  `json:"key"`
	Filename     string  `json:"filename"`
	Alias        string  `json:"alias,omitempty"`
	TargetWidth  int     `json:"target_width"`
	TargetHeight int     `json:"target_height"`
	Brightness   float64 `json:"brightness"`
	Contrast     float64 `json:"contrast"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Pixels       []byte  `json:"pixels"`
}

// Codec is the JSONL studio.Codec.
type Codec struct {
	// Filter is given to the decoded studio and its images.
	Filter raster.Filter

	// Now stamps exported_at. Defaults to time.Now.
	Now func() time.Time

	// MaxPixels rejects records whose raster exceeds this pixel count. 0 means unlimited.
	MaxPixels int
}

var _ studio.Codec = Codec{}

// Encode writes a header line followed by one record per image in insertion order.
func (c Codec) Encode(s *studio.Studio) ([]byte, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	header := Header{
		AASSession:    true,
		SchemaVersion: SchemaVersion,
		ExportedAt:    now().Unix(),
		Current:       s.Current(),
		Count:         s.Len(),
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewInternal(err)
	}

	for _, img := range s.Images() {
		if err := enc.Encode(toRecord(img)); err != nil {
			return nil, errors.NewInternal(err)
		}
	}
	return buf.Bytes(), nil
}

func toRecord(img *asciiimage.Image) Record {
	st := img.State()
	return Record{
		Key:          img.Key(),
		Filename:     st.Filename,
		Alias:        st.Alias,
		TargetWidth:  st.TargetWidth,
		TargetHeight: st.TargetHeight,
		Brightness:   st.Brightness,
		Contrast:     st.Contrast,
		Width:        st.Source.Width(),
		Height:       st.Source.Height(),
		Pixels:       st.Source.Pixels(),
	}
}

// Decode parses a payload into a new studio. Any malformed line fails the whole decode.
func (c Codec) Decode(data []byte) (*studio.Studio, error) {
	header, records, err := Parse(data)
	if err != nil {
		return nil, err
	}

	filter := c.Filter
	if filter == "" {
		filter = raster.DefaultFilter
	}

	images := make([]*asciiimage.Image, 0, len(records))
	for i, rec := range records {
		img, err := fromRecord(rec, filter, c.MaxPixels)
		if err != nil {
			return nil, recordError(i+2, err)
		}
		images = append(images, img)
	}

	return studio.Restore(images, header.Current, studio.WithFilter(filter))
}

func fromRecord(rec Record, filter raster.Filter, maxPixels int) (*asciiimage.Image, error) {
	src, err := raster.New(rec.Width, rec.Height, rec.Pixels)
	if err != nil {
		return nil, err
	}
	if maxPixels > 0 && src.Width()*src.Height() > maxPixels {
		return nil, errors.NewInvalidParameter(fmt.Sprintf("raster %dx%d exceeds %d pixels",
			src.Width(), src.Height(), maxPixels))
	}
	img, err := asciiimage.Restore(asciiimage.State{
		Filename:     rec.Filename,
		Alias:        rec.Alias,
		TargetWidth:  rec.TargetWidth,
		TargetHeight: rec.TargetHeight,
		Brightness:   rec.Brightness,
		Contrast:     rec.Contrast,
		Source:       src,
	}, filter)
	if err != nil {
		return nil, err
	}
	if rec.Key != "" && rec.Key != img.Key() {
		return nil, errors.NewInvalidParameter(
			fmt.Sprintf("record key %q does not match alias/filename %q", rec.Key, img.Key()))
	}
	return img, nil
}

// Parse splits a payload into its header and records without building images.
func Parse(data []byte) (Header, []Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var header Header
	if err := dec.Decode(&header); err != nil {
		if err == io.EOF {
			return Header{}, nil, errors.NewInvalidParameter("session payload is empty")
		}
		return Header{}, nil, recordError(1, err)
	}
	if !header.AASSession {
		return Header{}, nil, errors.NewInvalidParameter("missing session header")
	}
	if header.SchemaVersion != SchemaVersion {
		return Header{}, nil, errors.NewInvalidParameter(
			fmt.Sprintf("unsupported schema_version %q", header.SchemaVersion))
	}

	var records []Record
	for line := 2; ; line++ {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Header{}, nil, recordError(line, err)
		}
		records = append(records, rec)
	}

	if header.Count != len(records) {
		return Header{}, nil, errors.NewInvalidParameter(
			fmt.Sprintf("header declares %d images, found %d", header.Count, len(records)))
	}
	return header, records, nil
}

func recordError(line int, err error) error {
	if se, ok := errors.As(err); ok {
		return &errors.StudioError{
			Code:    se.Code,
			Status:  se.Status,
			Message: fmt.Sprintf("line %d: %s", line, se.Message),
			Details: map[string]any{"line": line},
		}
	}
	return errors.NewInvalidParameter(fmt.Sprintf("line %d: invalid JSON: %v", line, err))
}
