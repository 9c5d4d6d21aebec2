package render

import (
	"bytes"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// SVG renders payload as a standalone vector image. The viewBox is in
// module units and width/height carry the requested pixel size, so the
// file opens at o.Size yet stays crisp at any zoom.
func SVG(payload string, o Options) ([]byte, error) {
	o = o.Normalized()
	qr, err := qrcode.New(payload, recoveryLevel(o.Level))
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	qr.DisableBorder = !o.Margin
	bitmap := qr.Bitmap()
	n := len(bitmap)
	if n == 0 {
		return nil, fmt.Errorf("empty symbol")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, o.Size, o.Size, n, n)
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="%s"/>`, n, n, o.Background)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !bitmap[y][x] {
				continue
			}
			if o.Style == StyleDots {
				fmt.Fprintf(&buf, `<circle cx="%.1f" cy="%.1f" r="0.5" fill="%s"/>`, float64(x)+0.5, float64(y)+0.5, o.Foreground)
			} else {
				fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="1" height="1" fill="%s"/>`, x, y, o.Foreground)
			}
		}
	}
	if o.LogoData != "" {
		mime, b64, err := splitLogoData(o.LogoData)
		if err != nil {
			return nil, err
		}
		// logo dimensions converted from pixels to module units
		lw := float64(o.LogoWidth) * float64(n) / float64(o.Size)
		lh := float64(o.LogoHeight) * float64(n) / float64(o.Size)
		fmt.Fprintf(&buf, `<image x="%.2f" y="%.2f" width="%.2f" height="%.2f" href="data:%s;base64,%s"/>`,
			(float64(n)-lw)/2, (float64(n)-lh)/2, lw, lh, mime, b64)
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}

func recoveryLevel(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelQuartile:
		return qrcode.High
	case LevelHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
