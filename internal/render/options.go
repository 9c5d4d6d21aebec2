// Package render rasterizes payload strings into PNG, SVG and terminal
// QR symbols. Options are cosmetic only; the payload is never touched.
package render

import "strings"

const (
	MinSize     = 128
	MaxSize     = 512
	DefaultSize = 256
)

// Level is the error correction setting. More redundancy survives more
// symbol damage but packs fewer bits per module.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelQuartile Level = "quartile"
	LevelHigh     Level = "high"
)

// ParseLevel accepts the canonical names plus the standard single
// letters L/M/Q/H in either case.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelLow, true
	case "m", "medium":
		return LevelMedium, true
	case "q", "quartile":
		return LevelQuartile, true
	case "h", "high":
		return LevelHigh, true
	}
	return "", false
}

// Style selects how dark modules are drawn.
type Style string

const (
	StyleSquares Style = "squares"
	StyleDots    Style = "dots"
)

func ParseStyle(s string) (Style, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "squares", "square":
		return StyleSquares, true
	case "dots", "dot":
		return StyleDots, true
	}
	return "", false
}

// Options control rasterization. LogoData holds an uploaded image as a
// data URI or bare base64 PNG; logo dimensions are output pixels.
type Options struct {
	Size       int    `json:"size"`
	Background string `json:"bg"`
	Foreground string `json:"fg"`
	Level      Level  `json:"level"`
	Style      Style  `json:"style"`
	Margin     bool   `json:"margin"`
	LogoData   string `json:"logoData,omitempty"`
	LogoWidth  int    `json:"logoWidth,omitempty"`
	LogoHeight int    `json:"logoHeight,omitempty"`
}

func Default() Options {
	return Options{
		Size:       DefaultSize,
		Background: "#ffffff",
		Foreground: "#000000",
		Level:      LevelMedium,
		Style:      StyleSquares,
		Margin:     true,
	}
}

// Normalized clamps the size to [MinSize, MaxSize], canonicalizes level
// and style, and falls back to black-on-white for malformed colors. A
// logo with missing dimensions gets a fifth of the symbol edge; one
// larger than half the edge is shrunk so the symbol stays scannable.
func (o Options) Normalized() Options {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Size < MinSize {
		o.Size = MinSize
	}
	if o.Size > MaxSize {
		o.Size = MaxSize
	}
	o.Background = normHex(o.Background, "#ffffff")
	o.Foreground = normHex(o.Foreground, "#000000")
	if lv, ok := ParseLevel(string(o.Level)); ok {
		o.Level = lv
	} else {
		o.Level = LevelMedium
	}
	if st, ok := ParseStyle(string(o.Style)); ok {
		o.Style = st
	} else {
		o.Style = StyleSquares
	}
	if o.LogoData != "" {
		if o.LogoWidth <= 0 {
			o.LogoWidth = o.Size / 5
		}
		if o.LogoHeight <= 0 {
			o.LogoHeight = o.Size / 5
		}
		if max := o.Size / 2; o.LogoWidth > max {
			o.LogoWidth = max
		}
		if max := o.Size / 2; o.LogoHeight > max {
			o.LogoHeight = max
		}
	} else {
		o.LogoWidth, o.LogoHeight = 0, 0
	}
	return o
}

// normHex returns s expanded to #rrggbb lowercase, or fallback when s
// is not a 3- or 6-digit hex color.
func normHex(s, fallback string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 7 {
		return fallback
	}
	if s[0] != '#' {
		return fallback
	}
	for _, c := range s[1:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fallback
		}
	}
	if len(s) == 4 {
		return "#" + strings.Repeat(string(s[1]), 2) + strings.Repeat(string(s[2]), 2) + strings.Repeat(string(s[3]), 2)
	}
	return s
}
