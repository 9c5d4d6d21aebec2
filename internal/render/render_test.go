package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func logoB64(t *testing.T, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestPNG(t *testing.T) {
	b, err := PNG("hello", Default())
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 8 || !bytes.HasPrefix(b, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("not png: %v", b[:8])
	}
}

func TestPNGStyleAndLevel(t *testing.T) {
	o := Default()
	o.Style = StyleDots
	o.Level = LevelHigh
	o.Background = "#112233"
	o.Foreground = "#f0f0f0"
	b, err := PNG("https://example.com", o)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatal("not png")
	}
}

func TestPNGWithLogo(t *testing.T) {
	o := Default()
	o.LogoData = logoB64(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	b, err := PNG("logo bearer", o)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatal("not png")
	}
}

func TestPNGLogoAtClampSize(t *testing.T) {
	o := Default()
	o.Level = LevelLow
	o.LogoData = logoB64(t, color.RGBA{R: 0xff, A: 0xff})
	o.LogoWidth, o.LogoHeight = o.Size/2, o.Size/2

	// 21 payload bytes land on a 25-module symbol whose canvas rounds
	// to 255px, one short of the requested 256
	b, err := PNG("https://example.com/q", o)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	cx := img.Bounds().Min.X + img.Bounds().Dx()/2
	cy := img.Bounds().Min.Y + img.Bounds().Dy()/2
	r, g, bl, _ := img.At(cx, cy).RGBA()
	if r>>8 != 0xff || g>>8 != 0x00 || bl>>8 != 0x00 {
		t.Fatalf("logo not drawn: center is rgb(%d,%d,%d)", r>>8, g>>8, bl>>8)
	}
}

func TestPNGBadLogo(t *testing.T) {
	o := Default()
	o.LogoData = "data:image/svg+xml;base64,AAAA"
	if _, err := PNG("x", o); err == nil {
		t.Fatal("expected error for unsupported logo type")
	}
}

func TestSVG(t *testing.T) {
	o := Default()
	o.Background = "#123456"
	b, err := SVG("hello", o)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.Contains(s, "<svg") {
		t.Fatal("not svg")
	}
	if !strings.Contains(s, `width="256"`) {
		t.Fatalf("requested size missing: %s", s[:120])
	}
	if !strings.Contains(s, `fill="#123456"`) {
		t.Fatal("background color missing")
	}
}

func TestSVGDots(t *testing.T) {
	o := Default()
	o.Style = StyleDots
	b, err := SVG("hello", o)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("<circle")) {
		t.Fatal("dots style should draw circles")
	}
}

func TestSVGLogoEmbed(t *testing.T) {
	o := Default()
	o.LogoData = logoB64(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	b, err := SVG("hello", o)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(`<image `)) || !bytes.Contains(b, []byte("data:image/png;base64,")) {
		t.Fatal("logo image missing")
	}
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	Terminal(&buf, "hello", LevelQuartile)
	if buf.Len() == 0 {
		t.Fatal("no terminal output")
	}
}

func TestNormalized(t *testing.T) {
	o := Options{Size: 64, Background: "nope", Foreground: "#FFF", Level: "Q", Style: "dot"}
	n := o.Normalized()
	if n.Size != MinSize {
		t.Fatalf("size %d", n.Size)
	}
	if n.Background != "#ffffff" {
		t.Fatalf("bg %q", n.Background)
	}
	if n.Foreground != "#ffffff" {
		t.Fatalf("fg %q", n.Foreground)
	}
	if n.Level != LevelQuartile || n.Style != StyleDots {
		t.Fatalf("level %q style %q", n.Level, n.Style)
	}

	o = Options{Size: 9000}
	if n := o.Normalized(); n.Size != MaxSize {
		t.Fatalf("size %d", n.Size)
	}

	// logo dimensions default and clamp
	o = Default()
	o.LogoData = "AAAA"
	n = o.Normalized()
	if n.LogoWidth != n.Size/5 || n.LogoHeight != n.Size/5 {
		t.Fatalf("logo default %dx%d", n.LogoWidth, n.LogoHeight)
	}
	o.LogoWidth, o.LogoHeight = 1000, 1000
	n = o.Normalized()
	if n.LogoWidth != n.Size/2 || n.LogoHeight != n.Size/2 {
		t.Fatalf("logo clamp %dx%d", n.LogoWidth, n.LogoHeight)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"l": LevelLow, "L": LevelLow, "low": LevelLow,
		"m": LevelMedium, "medium": LevelMedium,
		"q": LevelQuartile, "quartile": LevelQuartile,
		"h": LevelHigh, "HIGH": LevelHigh,
	} {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseLevel("ultra"); ok {
		t.Fatal("ultra should not parse")
	}
}
