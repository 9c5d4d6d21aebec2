package cmd

import (
	"fmt"
	"os"

	"github.com/pquerna/otp/totp"
	"github.com/spf13/cobra"

	"github.com/qrsmith/qrsmith/internal/app"
	"github.com/qrsmith/qrsmith/internal/audit"
	"github.com/qrsmith/qrsmith/internal/render"
	"github.com/qrsmith/qrsmith/internal/service"
	"github.com/qrsmith/qrsmith/internal/state"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage web login credentials",
}

var adminPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Set the admin password (generates one when omitted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, _ := cmd.Flags().GetString("password")
		generated := false
		if pw == "" {
			pw, _ = app.RandToken(12)
			generated = true
		}
		st := mustLoadState()
		if err := service.SetAdminPassword(st, pw); err != nil {
			return err
		}
		if generated {
			fmt.Println(app.Color("==> Admin credentials (shown once):", "1;36"))
			fmt.Println("    username:", st.Admin.Username)
			fmt.Println("    password:", pw)
		} else {
			fmt.Println("Password updated.")
		}
		audit.Write(audit.Entry{User: st.Admin.Username, Action: "admin.password.rotate", Detail: "cli"})
		return nil
	},
}

var adminDisableAuthCmd = &cobra.Command{
	Use:   "disable-auth",
	Short: "Clear the password and open the UI without login",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := mustLoadState()
		if err := service.DisableAuth(st); err != nil {
			return err
		}
		fmt.Println(app.Color("Auth disabled. Anyone who can reach the listen address has full access.", "1;33"))
		audit.Write(audit.Entry{Action: "admin.auth.disable", Detail: "cli"})
		return nil
	},
}

var adminTOTPCmd = &cobra.Command{
	Use:   "totp",
	Short: "Manage the one-time code second factor",
}

var adminTOTPEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Generate a TOTP secret and show the enrollment QR",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := mustLoadState()
		if st.Admin.PasswordBcrypt == "" {
			return fmt.Errorf("set a password first: qrsmith admin password")
		}
		key, err := totp.Generate(totp.GenerateOpts{Issuer: "qrsmith", AccountName: st.Admin.Username})
		if err != nil {
			return err
		}
		if err := st.Update(func(s *state.State) error {
			s.Admin.TOTPSecret = key.Secret()
			s.Admin.TOTPEnabled = true
			return nil
		}); err != nil {
			return err
		}
		fmt.Println("Secret:", key.Secret())
		fmt.Println("URI:   ", key.String())
		fmt.Println("Scan with your authenticator app:")
		render.Terminal(os.Stdout, key.String(), render.LevelMedium)
		audit.Write(audit.Entry{User: st.Admin.Username, Action: "admin.totp.enable", Detail: "cli"})
		return nil
	},
}

var adminTOTPDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn the second factor off",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := mustLoadState()
		if err := st.Update(func(s *state.State) error {
			s.Admin.TOTPEnabled = false
			s.Admin.TOTPSecret = ""
			return nil
		}); err != nil {
			return err
		}
		fmt.Println("TOTP disabled.")
		audit.Write(audit.Entry{User: st.Admin.Username, Action: "admin.totp.disable", Detail: "cli"})
		return nil
	},
}

func init() {
	adminCmd.AddCommand(adminPasswordCmd, adminDisableAuthCmd, adminTOTPCmd)
	adminTOTPCmd.AddCommand(adminTOTPEnableCmd, adminTOTPDisableCmd)
	adminPasswordCmd.Flags().String("password", "", "new password (min 8 chars; omit to generate)")
}
