package render

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"github.com/yeqown/go-qrcode/writer/standard/imgkit"
)

// nopCloser lets the standard writer target an in-memory buffer.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// PNG rasterizes payload with the given options. The output edge tracks
// o.Size as closely as whole-pixel modules allow; with the margin off
// the image is the bare symbol and may come out slightly under size.
func PNG(payload string, o Options) ([]byte, error) {
	o = o.Normalized()

	lvl := qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	switch o.Level {
	case LevelLow:
		lvl = qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case LevelQuartile:
		lvl = qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case LevelHigh:
		lvl = qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	}
	qrc, err := qrcode.NewWith(payload, qrcode.WithEncodingMode(qrcode.EncModeByte), lvl)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	dim := qrc.Dimension()
	if dim <= 0 {
		return nil, fmt.Errorf("bad symbol dimension %d", dim)
	}

	// Block width in pixels; with the margin on, reserve the standard
	// four-module quiet zone per side and pad the remainder as border.
	block := o.Size / dim
	border := 0
	if o.Margin {
		block = o.Size / (dim + 8)
		if block < 1 {
			block = 1
		}
		border = (o.Size - block*dim) / 2
		if border < 0 {
			border = 0
		}
	}
	if block < 1 {
		block = 1
	}

	opts := []standard.ImageOption{
		standard.WithQRWidth(uint8(block)),
		standard.WithBorderWidth(border),
		standard.WithBgColorRGBHex(o.Background),
		standard.WithFgColorRGBHex(o.Foreground),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	}
	if o.Style == StyleDots {
		opts = append(opts, standard.WithCircleShape())
	}
	if o.LogoData != "" {
		logo, err := DecodeLogo(o.LogoData)
		if err != nil {
			return nil, err
		}
		// rounding can leave the canvas under o.Size, and the writer
		// drops any logo wider than half the real edge
		edge := block*dim + 2*border
		if o.LogoWidth > edge/2 {
			o.LogoWidth = edge / 2
		}
		if o.LogoHeight > edge/2 {
			o.LogoHeight = edge / 2
		}
		logo = imgkit.Scale(logo, image.Rect(0, 0, o.LogoWidth, o.LogoHeight), nil)
		opts = append(opts, standard.WithLogoImage(logo), standard.WithLogoSizeMultiplier(2))
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopCloser{&buf}, opts...)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	return buf.Bytes(), nil
}
