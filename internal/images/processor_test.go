package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/alternativa-centar/site/config"
	"github.com/alternativa-centar/site/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURI(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeDataURI(t *testing.T, value string) (string, image.Image) {
	t.Helper()

	mimeType, data, err := parseDataURI(value)
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return mimeType, img
}

func newTestProcessor(store *storage.Storage) *Processor {
	return NewProcessor(config.ImageConfig{MaxBytes: 2 << 20, MaxDimension: 1200, Quality: 80}, store, logrus.New())
}

func TestNormalizeDownscalesLargeImages(t *testing.T) {
	p := newTestProcessor(nil)

	out, err := p.Normalize(context.Background(), "news", pngDataURI(t, 2400, 1000))
	require.NoError(t, err)

	mimeType, img := decodeDataURI(t, out)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	p := newTestProcessor(nil)

	out, err := p.Normalize(context.Background(), "team", pngDataURI(t, 300, 400))
	require.NoError(t, err)

	_, img := decodeDataURI(t, out)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestNormalizePassThrough(t *testing.T) {
	p := newTestProcessor(nil)

	out, err := p.Normalize(context.Background(), "news", "")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = p.Normalize(context.Background(), "news", "https://cdn.example.com/images/news/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/news/a.jpg", out)
}

func TestNormalizeRejectsInvalidUploads(t *testing.T) {
	p := NewProcessor(config.ImageConfig{MaxBytes: 64}, nil, logrus.New())
	ctx := context.Background()

	cases := map[string]string{
		"not an image": "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello")),
		"not base64":   "data:image/png,rawbytes",
		"malformed":    "data:image/png;base64",
		"garbage":      "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not really a png")),
		"too large":    pngDataURI(t, 64, 64),
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Normalize(ctx, "news", value)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

type memoryBackend struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memoryBackend) EnsureBucket(context.Context) error { return nil }

func (m *memoryBackend) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.objects[key])), nil
}

func (m *memoryBackend) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryBackend) Bucket() string { return "test" }

func TestNormalizeUploadsToStorage(t *testing.T) {
	backend := &memoryBackend{objects: map[string][]byte{}, types: map[string]string{}}
	store := storage.NewStorage(backend, "https://cdn.example.com")
	p := newTestProcessor(store)
	ctx := context.Background()

	jpegish := strings.Replace(pngDataURI(t, 50, 50), "image/png", "image/jpeg", 1)
	url, err := p.Normalize(ctx, "news", jpegish)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://cdn.example.com/images/news/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	key, ok := store.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", backend.types[key])
	assert.NotEmpty(t, backend.objects[key])

	p.Discard(ctx, url)
	assert.Empty(t, backend.objects)
}
