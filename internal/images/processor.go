// Package images validates and compresses images uploaded from the admin
// panel. Images arrive as data URIs; the result is either a smaller data URI
// or, with object storage configured, a public URL.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/alternativa-centar/site/config"
	"github.com/alternativa-centar/site/internal/storage"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp" // WebP decoder
)

// ErrInvalidImage is returned for uploads that are not a decodable image
// within the size limit.
var ErrInvalidImage = errors.New("invalid image")

// Processor compresses uploaded images and optionally offloads them to
// object storage.
type Processor struct {
	maxBytes     int
	maxDimension int
	quality      int
	store        *storage.Storage
	log          logrus.FieldLogger
}

// NewProcessor creates a processor. store may be nil, in which case images
// stay inline.
func NewProcessor(cfg config.ImageConfig, store *storage.Storage, log logrus.FieldLogger) *Processor {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 2 << 20
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = 1200
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = 80
	}
	return &Processor{
		maxBytes:     cfg.MaxBytes,
		maxDimension: cfg.MaxDimension,
		quality:      cfg.Quality,
		store:        store,
		log:          log,
	}
}

// Normalize turns an incoming image field into its stored form. Empty
// values and plain URLs pass through unchanged.
func (p *Processor) Normalize(ctx context.Context, collection, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || !strings.HasPrefix(value, "data:") {
		return value, nil
	}

	mimeType, data, err := parseDataURI(value)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: file must be an image", ErrInvalidImage)
	}
	if len(data) > p.maxBytes {
		return "", fmt.Errorf("%w: image must be smaller than %dMB", ErrInvalidImage, p.maxBytes>>20)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	img = p.fit(img)

	format, outType, ext := outputFormat(mimeType)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(p.quality)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	if p.store == nil {
		return "data:" + outType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
	}

	key := storage.NewImageKey(collection, ext)
	if err := p.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), outType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return p.store.URL(key), nil
}

// Discard removes a previously stored image from object storage. Inline
// images and foreign URLs are ignored. Failures are logged only; a stale
// object does no harm.
func (p *Processor) Discard(ctx context.Context, value string) {
	if p.store == nil || value == "" {
		return
	}
	key, ok := p.store.KeyFromURL(value)
	if !ok {
		return
	}
	if err := p.store.Delete(ctx, key); err != nil {
		p.log.WithError(err).WithField("key", key).Warn("failed to delete replaced image")
	}
}

func (p *Processor) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= p.maxDimension && bounds.Dy() <= p.maxDimension {
		return img
	}
	return imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
}

func parseDataURI(value string) (string, []byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(value, "data:"), ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed data uri", ErrInvalidImage)
	}
	mimeType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("%w: data uri must be base64 encoded", ErrInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return strings.ToLower(mimeType), data, nil
}

// outputFormat keeps PNG and GIF lossless and re-encodes everything else
// as JPEG, matching what the browser-side compressor produced.
func outputFormat(mimeType string) (imaging.Format, string, string) {
	switch mimeType {
	case "image/png", "image/gif":
		return imaging.PNG, "image/png", "png"
	default:
		return imaging.JPEG, "image/jpeg", "jpg"
	}
}
