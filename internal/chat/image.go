package chat

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"healthchat/internal/models"
)

// MaxImageBytes is the ceiling for a decoded image payload, enforced
// identically on the sending and receiving side.
const MaxImageBytes = 10 << 20 // 10 MiB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var dataURLPattern = regexp.MustCompile(`^data:(image/[a-z]+);base64,(.+)$`)

var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image exceeds the 10 MiB limit")
	ErrMalformedImage       = errors.New("malformed image payload")
)

// ValidImage reports whether an image of the given MIME type and decoded size
// is acceptable.
func ValidImage(mimeType string, size int64) bool {
	return allowedImageTypes[mimeType] && size > 0 && size <= MaxImageBytes
}

// ParseDataURL decodes a data:image/<type>;base64,<payload> string into an
// attachment. The payload is fully decoded to verify both encoding and size.
func ParseDataURL(s string) (*models.ImageAttachment, error) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, ErrMalformedImage
	}
	mimeType, payload := m[1], m[2]
	if !allowedImageTypes[mimeType] {
		return nil, ErrUnsupportedImageType
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrMalformedImage
	}
	if !ValidImage(mimeType, int64(len(data))) {
		return nil, ErrImageTooLarge
	}
	return &models.ImageAttachment{Data: payload, MimeType: mimeType}, nil
}

// DecodeImagePayload accepts either wire form of the image field: a data URL
// string or an {data, mimeType, name} object.
func DecodeImagePayload(raw json.RawMessage) (*models.ImageAttachment, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return ParseDataURL(asString)
	}
	var att models.ImageAttachment
	if err := json.Unmarshal(raw, &att); err != nil {
		return nil, ErrMalformedImage
	}
	data, err := base64.StdEncoding.DecodeString(att.Data)
	if err != nil || len(data) == 0 {
		return nil, ErrMalformedImage
	}
	if !allowedImageTypes[att.MimeType] {
		return nil, ErrUnsupportedImageType
	}
	if !ValidImage(att.MimeType, int64(len(data))) {
		return nil, ErrImageTooLarge
	}
	return &att, nil
}

// EncodeFile reads an image from disk, sniffs its type, and returns the
// transport attachment. A read failure surfaces as an error so the caller can
// tell the user the image is invalid rather than silently dropping it.
func EncodeFile(path string) (*models.ImageAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	mimeType := http.DetectContentType(sniff)
	if !allowedImageTypes[mimeType] {
		return nil, ErrUnsupportedImageType
	}
	if !ValidImage(mimeType, int64(len(data))) {
		return nil, ErrImageTooLarge
	}
	return &models.ImageAttachment{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
		Name:     filepath.Base(path),
	}, nil
}

func imageBytes(att *models.ImageAttachment) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(att.Data)
	if err != nil {
		return nil, ErrMalformedImage
	}
	return data, nil
}
