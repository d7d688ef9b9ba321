package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeDataURL(t *testing.T) {
	raw := pngBytes(t, 4, 4)
	data, ext, err := DecodeDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)
	assert.Equal(t, raw, data)
}

func TestDecodeDataURL_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"not a data url",
		"data:image/gif;base64,R0lGOD",
		"data:image/png,plain",
		"data:image/png;base64,%%%",
	} {
		_, _, err := DecodeDataURL(in)
		assert.ErrorIs(t, err, ErrInvalidImage, in)
	}
}

func TestPrepare_DownscalesWideImages(t *testing.T) {
	out, err := Prepare(pngBytes(t, 1600, 100), ".png")
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxWidth, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestPrepare_KeepsSmallImages(t *testing.T) {
	out, err := Prepare(pngBytes(t, 40, 20), ".png")
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestPrepare_RejectsGarbage(t *testing.T) {
	_, err := Prepare([]byte("not an image"), ".png")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/media/")
	data := pngBytes(t, 2, 2)

	ref, err := store.Save(context.Background(), data, ".png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "/media/recipes/"))
	assert.True(t, strings.HasSuffix(ref, Hash(data)+".png"))

	written, err := os.ReadFile(filepath.Join(dir, "recipes", Hash(data)+".png"))
	require.NoError(t, err)
	assert.Equal(t, data, written)
}
