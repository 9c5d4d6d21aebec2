// Package payload turns structured form input into the standardized
// strings that QR scanners parse: mailto/tel/sms URIs, WIFI: records
// and vCard contact blocks. Everything here is pure; rendering and
// persistence live elsewhere.
package payload

import (
	"fmt"
	"net/url"
	"strings"
)

// Mode selects which fields are read and which template applies.
type Mode string

const (
	ModeText  Mode = "text"
	ModeLink  Mode = "link"
	ModeEmail Mode = "email"
	ModePhone Mode = "phone"
	ModeSMS   Mode = "sms"
	ModeWiFi  Mode = "wifi"
	ModeVCard Mode = "vcard"
)

// Modes lists all supported modes in UI order.
func Modes() []Mode {
	return []Mode{ModeText, ModeLink, ModeEmail, ModePhone, ModeSMS, ModeWiFi, ModeVCard}
}

func (m Mode) Valid() bool {
	switch m {
	case ModeText, ModeLink, ModeEmail, ModePhone, ModeSMS, ModeWiFi, ModeVCard:
		return true
	}
	return false
}

// Fields carries the raw inputs for every mode. Only the fields of the
// active mode are read; the rest are ignored.
type Fields struct {
	Text string `json:"text,omitempty"`

	URL string `json:"url,omitempty"`

	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"` // email body, also the sms message

	Phone string `json:"phone,omitempty"`

	SSID     string `json:"ssid,omitempty"`
	Security string `json:"security,omitempty"` // WPA, WEP or nopass
	Password string `json:"password,omitempty"`

	Name    string `json:"name,omitempty"`
	Org     string `json:"org,omitempty"`
	Title   string `json:"title,omitempty"`
	Email   string `json:"email,omitempty"`
	Tel     string `json:"tel,omitempty"`
	Website string `json:"website,omitempty"`
	Address string `json:"address,omitempty"`
}

// Encode renders the payload for mode m. It never rejects input: empty
// fields come out as empty segments (e.g. "mailto:?subject=&body="), so
// validation stays with the caller. The result depends only on (m, f);
// an unknown mode yields "".
func Encode(m Mode, f Fields) string {
	switch m {
	case ModeText:
		return f.Text
	case ModeLink:
		return linkPayload(f.URL)
	case ModeEmail:
		return "mailto:" + f.To + "?subject=" + esc(f.Subject) + "&body=" + esc(f.Body)
	case ModePhone:
		return "tel:" + f.Phone
	case ModeSMS:
		return "sms:" + f.Phone + "?body=" + esc(f.Body)
	case ModeWiFi:
		return fmt.Sprintf("WIFI:S:%s;T:%s;P:%s;;", f.SSID, f.Security, f.Password)
	case ModeVCard:
		return vcardPayload(f)
	}
	return ""
}

func linkPayload(raw string) string {
	low := strings.ToLower(raw)
	if strings.HasPrefix(low, "http://") || strings.HasPrefix(low, "https://") {
		return raw
	}
	return "https://" + raw
}

// vcardPayload emits a VERSION:3.0 card with a fixed line order so that
// re-encoding the same fields is byte-identical. Lines are LF separated
// with no blank lines.
func vcardPayload(f Fields) string {
	given, family := splitName(f.Name)
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:" + family + ";" + given,
		"FN:" + f.Name,
		"ORG:" + f.Org,
		"TITLE:" + f.Title,
		"EMAIL:" + f.Email,
		"TEL:" + f.Tel,
		"URL:" + f.Website,
		"ADR:" + f.Address,
		"END:VCARD",
	}
	return strings.Join(lines, "\n")
}

// splitName reads the first word as the given name and the rest as the
// family name; N: wants <family>;<given>.
func splitName(name string) (given, family string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	given = parts[0]
	if len(parts) == 2 {
		family = strings.TrimSpace(parts[1])
	}
	return given, family
}

// esc escapes a query segment with spaces as %20, not +. Mail clients
// reading mailto: URIs expect the %20 form.
func esc(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
