package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qrsmith/qrsmith/internal/app"
	"github.com/qrsmith/qrsmith/internal/crypto"
	"github.com/qrsmith/qrsmith/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show state location, listen address and snapshot count",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := mustLoadState()
		fmt.Println(app.Bold("QRsmith " + app.Version))
		fmt.Println("State:    ", app.StatePath())
		fmt.Println("Listen:   ", st.Settings.Listen)
		fmt.Println("Snapshots:", len(st.Snapshots))

		auth := app.Color("disabled", "1;33")
		if st.Admin.PasswordBcrypt != "" {
			auth = app.Color("enabled", "1;32")
			if st.Admin.TOTPEnabled {
				auth += " +totp"
			}
		}
		fmt.Println("Auth:     ", auth)

		if _, err := os.Stat(app.CertPath()); err == nil {
			if fp, err := crypto.Fingerprint(app.CertPath()); err == nil {
				fmt.Println("TLS cert: ", fp)
			}
		}

		backups, _ := state.Backups()
		fmt.Println("Backups:  ", len(backups))
		return nil
	},
}
