package payload

import (
	"strings"
	"testing"
)

func TestEncodeLiterals(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
		f    Fields
		want string
	}{
		{"text", ModeText, Fields{Text: "hello"}, "hello"},
		{"link bare", ModeLink, Fields{URL: "example.com"}, "https://example.com"},
		{"link https", ModeLink, Fields{URL: "https://example.com"}, "https://example.com"},
		{"link http", ModeLink, Fields{URL: "http://example.com"}, "http://example.com"},
		{"link upper scheme", ModeLink, Fields{URL: "HTTPS://Example.com"}, "HTTPS://Example.com"},
		{"phone", ModePhone, Fields{Phone: "+15551234567"}, "tel:+15551234567"},
		{"sms", ModeSMS, Fields{Phone: "+15551234567", Body: "See you at 5"}, "sms:+15551234567?body=See%20you%20at%205"},
		{"wifi", ModeWiFi, Fields{SSID: "Home", Security: "WPA", Password: "secret"}, "WIFI:S:Home;T:WPA;P:secret;;"},
		{"wifi open", ModeWiFi, Fields{SSID: "Cafe", Security: "nopass"}, "WIFI:S:Cafe;T:nopass;P:;;"},
		{"email", ModeEmail, Fields{To: "a@b.com", Subject: "Hi", Body: "Hello there"}, "mailto:a@b.com?subject=Hi&body=Hello%20there"},
		{"email empty", ModeEmail, Fields{}, "mailto:?subject=&body="},
		{"sms empty body", ModeSMS, Fields{Phone: "911"}, "sms:911?body="},
	}
	for _, c := range cases {
		got := Encode(c.mode, c.f)
		if got != c.want {
			t.Errorf("%s: got %q want %q", c.name, got, c.want)
		}
	}
}

func TestEncodeVCard(t *testing.T) {
	f := Fields{
		Name:    "Ada Lovelace",
		Org:     "Analytical Engines Ltd",
		Title:   "Programmer",
		Email:   "ada@example.com",
		Tel:     "+442012345678",
		Website: "https://example.com/ada",
		Address: "12 St James Square, London",
	}
	got := Encode(ModeVCard, f)
	want := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:Lovelace;Ada",
		"FN:Ada Lovelace",
		"ORG:Analytical Engines Ltd",
		"TITLE:Programmer",
		"EMAIL:ada@example.com",
		"TEL:+442012345678",
		"URL:https://example.com/ada",
		"ADR:12 St James Square, London",
		"END:VCARD",
	}, "\n")
	if got != want {
		t.Fatalf("vcard mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, "\n\n") {
		t.Fatal("vcard contains a blank line")
	}
}

func TestEncodeVCardNames(t *testing.T) {
	for _, c := range []struct {
		name string
		want string // the N: line
	}{
		{"Ada Lovelace", "N:Lovelace;Ada"},
		{"Grace Brewster Hopper", "N:Brewster Hopper;Grace"},
		{"Ada", "N:;Ada"},
		{"", "N:;"},
	} {
		got := Encode(ModeVCard, Fields{Name: c.name})
		if !strings.Contains(got, c.want+"\n") {
			t.Errorf("name %q: missing line %q in:\n%s", c.name, c.want, got)
		}
	}
}

func TestEncodeIdempotent(t *testing.T) {
	f := Fields{
		Text: "x", URL: "example.com", To: "a@b.com", Subject: "s", Body: "b c",
		Phone: "+1555", SSID: "net", Security: "WEP", Password: "p;w",
		Name: "A B", Org: "O", Title: "T", Email: "e@f", Tel: "1", Website: "w", Address: "a",
	}
	for _, m := range Modes() {
		first := Encode(m, f)
		second := Encode(m, f)
		if first != second {
			t.Fatalf("%s: re-encode differs: %q vs %q", m, first, second)
		}
	}
}

func TestEncodeEmptyLink(t *testing.T) {
	// the template still applies with no input, same as mailto:?subject=&body=
	if got := Encode(ModeLink, Fields{}); got != "https://" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeUnknownMode(t *testing.T) {
	if got := Encode(Mode("barcode"), Fields{Text: "x"}); got != "" {
		t.Fatalf("got %q", got)
	}
	if Mode("barcode").Valid() {
		t.Fatal("barcode should not be a valid mode")
	}
	for _, m := range Modes() {
		if !m.Valid() {
			t.Fatalf("%s should be valid", m)
		}
	}
}
