package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qrsmith/qrsmith/internal/app"
	"github.com/qrsmith/qrsmith/internal/state"
)

var rootCmd = &cobra.Command{
	Use:     "qrsmith",
	Short:   "QRsmith - self-hosted QR studio (encode, style, snapshot; single binary)",
	Version: app.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func mustLoadState() *state.State {
	st, err := state.LoadOrInit()
	if err != nil {
		fmt.Println("failed to load state:", err)
		os.Exit(1)
	}
	return st
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(snapCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(restoreCmd)
}
