package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrsmith/qrsmith/internal/app"
	"github.com/qrsmith/qrsmith/internal/state"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore state.json from a backup written on an earlier save",
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			backups, err := state.Backups()
			if err != nil {
				return err
			}
			for _, b := range backups {
				fmt.Println(b)
			}
			return nil
		}

		backup, _ := cmd.Flags().GetString("backup")
		if backup == "" {
			backups, err := state.Backups()
			if err != nil || len(backups) == 0 {
				return fmt.Errorf("no backup found")
			}
			backup = backups[0]
		}
		if !strings.HasPrefix(backup, "/") {
			backup = filepath.Join(app.BackupsDir(), backup)
		}
		fmt.Println("Restoring from:", backup)
		if err := app.CopyFile(backup, app.StatePath(), 0600); err != nil {
			return err
		}
		fmt.Println("Restored. Restart `qrsmith web` to pick it up.")
		return nil
	},
}

func init() {
	restoreCmd.Flags().String("backup", "", "backup file name or absolute path (default: latest)")
	restoreCmd.Flags().Bool("list", false, "list available backups, newest first")
}
