package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrsmith/qrsmith/internal/payload"
	"github.com/qrsmith/qrsmith/internal/render"
	"github.com/qrsmith/qrsmith/internal/service"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a QR code without the web UI",
}

var genTextCmd = &cobra.Command{
	Use:   "text [text]",
	Short: "Encode free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return genRun(cmd, payload.ModeText, payload.Fields{Text: strings.Join(args, " ")})
	},
}

var genLinkCmd = &cobra.Command{
	Use:   "link [url]",
	Short: "Encode a URL (https:// is prepended when missing)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return genRun(cmd, payload.ModeLink, payload.Fields{URL: args[0]})
	},
}

var genEmailCmd = &cobra.Command{
	Use:   "email",
	Short: "Encode a mailto: link with subject and body",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		subject, _ := cmd.Flags().GetString("subject")
		body, _ := cmd.Flags().GetString("body")
		return genRun(cmd, payload.ModeEmail, payload.Fields{To: to, Subject: subject, Body: body})
	},
}

var genPhoneCmd = &cobra.Command{
	Use:   "phone [number]",
	Short: "Encode a tel: link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return genRun(cmd, payload.ModePhone, payload.Fields{Phone: args[0]})
	},
}

var genSMSCmd = &cobra.Command{
	Use:   "sms [number]",
	Short: "Encode an sms: link with a prefilled message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := cmd.Flags().GetString("body")
		return genRun(cmd, payload.ModeSMS, payload.Fields{Phone: args[0], Body: body})
	},
}

var genWiFiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "Encode wifi join credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		ssid, _ := cmd.Flags().GetString("ssid")
		sec, _ := cmd.Flags().GetString("security")
		pass, _ := cmd.Flags().GetString("password")
		return genRun(cmd, payload.ModeWiFi, payload.Fields{SSID: ssid, Security: sec, Password: pass})
	},
}

var genVCardCmd = &cobra.Command{
	Use:   "vcard",
	Short: "Encode a contact card (vCard 3.0)",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := payload.Fields{}
		f.Name, _ = cmd.Flags().GetString("name")
		f.Org, _ = cmd.Flags().GetString("org")
		f.Title, _ = cmd.Flags().GetString("title")
		f.Email, _ = cmd.Flags().GetString("email")
		f.Tel, _ = cmd.Flags().GetString("tel")
		f.Website, _ = cmd.Flags().GetString("website")
		f.Address, _ = cmd.Flags().GetString("address")
		return genRun(cmd, payload.ModeVCard, f)
	},
}

func genRun(cmd *cobra.Command, mode payload.Mode, f payload.Fields) error {
	pl := payload.Encode(mode, f)
	if pl == "" {
		return fmt.Errorf("nothing to encode")
	}

	st := mustLoadState()
	o, err := genOptions(cmd, service.Defaults(st))
	if err != nil {
		return err
	}

	if name, _ := cmd.Flags().GetString("save"); name != "" {
		sn, err := service.SnapshotSave(st, name, mode, pl, o)
		if err != nil {
			return err
		}
		fmt.Println("Saved snapshot:", sn.ID)
	}

	if only, _ := cmd.Flags().GetBool("payload-only"); only {
		fmt.Println(pl)
		return nil
	}

	term, _ := cmd.Flags().GetBool("terminal")
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		var b []byte
		if strings.HasSuffix(strings.ToLower(out), ".svg") {
			b, err = render.SVG(pl, o)
		} else {
			b, err = render.PNG(pl, o)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, b, 0644); err != nil {
			return err
		}
		fmt.Println("Wrote:", filepath.Clean(out))
		if !term {
			return nil
		}
	}

	fmt.Println(pl)
	render.Terminal(os.Stdout, pl, o.Level)
	return nil
}

// genOptions starts from the stored defaults and applies only the flags
// the user actually set.
func genOptions(cmd *cobra.Command, o render.Options) (render.Options, error) {
	flags := cmd.Flags()
	if flags.Changed("size") {
		o.Size, _ = flags.GetInt("size")
	}
	if flags.Changed("fg") {
		o.Foreground, _ = flags.GetString("fg")
	}
	if flags.Changed("bg") {
		o.Background, _ = flags.GetString("bg")
	}
	if flags.Changed("level") {
		s, _ := flags.GetString("level")
		lv, ok := render.ParseLevel(s)
		if !ok {
			return o, fmt.Errorf("unknown level %q (use L, M, Q or H)", s)
		}
		o.Level = lv
	}
	if flags.Changed("style") {
		s, _ := flags.GetString("style")
		st, ok := render.ParseStyle(s)
		if !ok {
			return o, fmt.Errorf("unknown style %q (use squares or dots)", s)
		}
		o.Style = st
	}
	if noMargin, _ := flags.GetBool("no-margin"); noMargin {
		o.Margin = false
	}
	if logo, _ := flags.GetString("logo"); logo != "" {
		data, err := logoFromFile(logo)
		if err != nil {
			return o, err
		}
		o.LogoData = data
		o.LogoWidth, _ = flags.GetInt("logo-width")
		o.LogoHeight, _ = flags.GetInt("logo-height")
	}
	return o.Normalized(), nil
}

// logoFromFile loads a PNG or JPEG file as a data URI.
func logoFromFile(path string) (string, error) {
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	default:
		return "", fmt.Errorf("logo must be a .png or .jpg file")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

func init() {
	genCmd.AddCommand(genTextCmd, genLinkCmd, genEmailCmd, genPhoneCmd, genSMSCmd, genWiFiCmd, genVCardCmd)

	pf := genCmd.PersistentFlags()
	pf.Int("size", render.DefaultSize, "image size in pixels (128-512)")
	pf.String("fg", "", "foreground color, e.g. #000000")
	pf.String("bg", "", "background color, e.g. #ffffff")
	pf.String("level", "", "error correction level: L, M, Q or H")
	pf.String("style", "", "module style: squares or dots")
	pf.Bool("no-margin", false, "drop the quiet zone border")
	pf.String("logo", "", "overlay a PNG or JPEG logo file")
	pf.Int("logo-width", 0, "logo width in pixels (default: size/5)")
	pf.Int("logo-height", 0, "logo height in pixels (default: size/5)")
	pf.String("out", "", "write to a file (.png or .svg by extension)")
	pf.Bool("terminal", false, "render in the terminal (default when --out is absent)")
	pf.Bool("payload-only", false, "print the encoded payload and exit")
	pf.String("save", "", "also save as a named snapshot")

	genEmailCmd.Flags().String("to", "", "recipient address")
	genEmailCmd.Flags().String("subject", "", "subject line")
	genEmailCmd.Flags().String("body", "", "message body")

	genSMSCmd.Flags().String("body", "", "prefilled message")

	genWiFiCmd.Flags().String("ssid", "", "network name")
	genWiFiCmd.Flags().String("security", "WPA", "WPA, WEP or nopass")
	genWiFiCmd.Flags().String("password", "", "network password")

	genVCardCmd.Flags().String("name", "", "full name")
	genVCardCmd.Flags().String("org", "", "organization")
	genVCardCmd.Flags().String("title", "", "job title")
	genVCardCmd.Flags().String("email", "", "email address")
	genVCardCmd.Flags().String("tel", "", "phone number")
	genVCardCmd.Flags().String("website", "", "website URL")
	genVCardCmd.Flags().String("address", "", "postal address")
}
