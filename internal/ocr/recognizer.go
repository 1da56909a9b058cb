// Package ocr extracts text from image media attached to inbound events.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	// Decoders for the formats chat platforms commonly deliver.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/charmbracelet/log"

	"github.com/nhle/brandwatch/internal/model"
)

// Downloader retrieves the raw bytes behind a media reference.
type Downloader interface {
	DownloadMedia(ctx context.Context, ref model.MediaRef) ([]byte, error)
}

// Engine runs one recognition pass over a normalized PNG image.
type Engine interface {
	Recognize(ctx context.Context, img []byte, profile Profile) (string, error)
}

// Recognizer turns image media into text, or into absence. Download and
// recognition failures are recoverable conditions: they degrade to "no
// text" and are never surfaced to the caller's control flow.
type Recognizer struct {
	downloader Downloader
	engine     Engine
	profiles   []Profile
	log        *log.Logger
}

// New creates a Recognizer that downloads media through downloader and
// recognizes it with engine, trying profiles in order.
func New(downloader Downloader, engine Engine, profiles []Profile, logger *log.Logger) *Recognizer {
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Recognizer{
		downloader: downloader,
		engine:     engine,
		profiles:   profiles,
		log:        logger,
	}
}

// Text resolves ref into recognized text. It returns "" when the media
// cannot be downloaded, cannot be decoded as an image, or yields no text
// under any profile. The empty common case (decorative images) is not an
// error.
func (r *Recognizer) Text(ctx context.Context, ref model.MediaRef) string {
	raw, err := r.downloader.DownloadMedia(ctx, ref)
	if err != nil {
		r.log.Warn("media download failed", "ref", ref, "err", err)
		return ""
	}

	img, err := normalize(raw)
	if err != nil {
		r.log.Warn("media decode failed", "ref", ref, "err", err)
		return ""
	}

	for _, p := range r.profiles {
		out, err := r.engine.Recognize(ctx, img, p)
		if err != nil {
			// One profile failing is expected; try the next layout.
			r.log.Debug("recognition profile failed", "profile", p.Name, "err", err)
			continue
		}
		if text := strings.TrimSpace(out); text != "" {
			return text
		}
	}

	return ""
}

// normalize decodes raw image bytes and re-encodes them as RGBA PNG.
// Recognizer engines are sensitive to channel count, so every image is
// brought to the same canonical color mode before recognition.
func normalize(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encoding normalized image: %w", err)
	}

	return buf.Bytes(), nil
}
