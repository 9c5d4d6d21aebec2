package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// splitLogoData accepts a data URI or bare base64 and returns the mime
// type plus the validated base64 body. Only PNG and JPEG logos are
// accepted; anything else never reaches an <image> href or the raster
// pipeline.
func splitLogoData(s string) (mime, b64 string, err error) {
	mime = "image/png"
	if strings.HasPrefix(s, "data:") {
		rest := strings.TrimPrefix(s, "data:")
		i := strings.Index(rest, ";base64,")
		if i < 0 {
			return "", "", fmt.Errorf("logo data must be base64 encoded")
		}
		mime = rest[:i]
		s = rest[i+len(";base64,"):]
	}
	if mime != "image/png" && mime != "image/jpeg" {
		return "", "", fmt.Errorf("unsupported logo type %q", mime)
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return "", "", fmt.Errorf("logo base64: %w", err)
	}
	return mime, s, nil
}

// DecodeLogo turns uploaded logo data into an image.
func DecodeLogo(s string) (image.Image, error) {
	_, b64, err := splitLogoData(s)
	if err != nil {
		return nil, err
	}
	raw, _ := base64.StdEncoding.DecodeString(b64)
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return img, nil
}
