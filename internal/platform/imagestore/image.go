package imagestore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
)

// MaxWidth is the widest an uploaded recipe image is stored at.
const MaxWidth = 800

// ErrInvalidImage is returned for payloads that are not a base64 JPEG or PNG data URL.
var ErrInvalidImage = errors.New("image must be a base64 encoded JPEG or PNG data URL")

// Store persists a prepared image and returns the reference clients load it from.
type Store interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// DecodeDataURL splits "data:<mime>;base64,<data>" into raw bytes and a file extension.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrInvalidImage
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		return nil, "", ErrInvalidImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return data, ext, nil
}

// Prepare decodes the image, scales it down to MaxWidth if needed and
// re-encodes it in its original format.
func Prepare(data []byte, ext string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if img.Bounds().Dx() > MaxWidth {
		img = resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	}

	var out bytes.Buffer
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&out, img, nil)
	case ".png":
		err = png.Encode(&out, img)
	default:
		return nil, fmt.Errorf("unsupported image format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return out.Bytes(), nil
}

// Hash is the SHA256 of the image bytes; stored images are named by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func objectName(data []byte, ext string) string {
	return "recipes/" + Hash(data) + ext
}
