package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrsmith/qrsmith/internal/bundle"
	"github.com/qrsmith/qrsmith/internal/render"
	"github.com/qrsmith/qrsmith/internal/service"
)

var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "Manage saved snapshots",
}

var snapLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := mustLoadState()
		fmt.Printf("%-36s  %-25s  %-6s  %s\n", "ID", "CREATED", "MODE", "NAME")
		for _, sn := range st.SnapshotsSorted() {
			fmt.Printf("%-36s  %-25s  %-6s  %s\n", sn.ID, sn.CreatedAt, sn.Mode, sn.Name)
		}
		return nil
	},
}

var snapShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one snapshot, optionally as a terminal QR",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			return fmt.Errorf("--id required")
		}
		st := mustLoadState()
		sn := st.FindSnapshot(id)
		if sn == nil {
			return fmt.Errorf("snapshot not found")
		}
		fmt.Println("Name:   ", sn.Name)
		fmt.Println("Mode:   ", sn.Mode)
		fmt.Println("Created:", sn.CreatedAt)
		fmt.Printf("Options: %dpx, %s on %s, level %s, %s\n",
			sn.Options.Size, sn.Options.Foreground, sn.Options.Background, sn.Options.Level, sn.Options.Style)
		fmt.Println("Payload:", sn.Payload)
		if term, _ := cmd.Flags().GetBool("terminal"); term {
			render.Terminal(os.Stdout, sn.Payload, sn.Options.Level)
		}
		return nil
	},
}

var snapRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			return fmt.Errorf("--id required")
		}
		st := mustLoadState()
		if err := service.SnapshotDelete(st, id); err != nil {
			return err
		}
		fmt.Println("Deleted:", id)
		return nil
	},
}

var snapExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot image (PNG or SVG by file extension)",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		out, _ := cmd.Flags().GetString("out")
		if id == "" || out == "" {
			return fmt.Errorf("--id and --out required")
		}
		st := mustLoadState()
		var b []byte
		var err error
		if strings.HasSuffix(strings.ToLower(out), ".svg") {
			b, err = service.SnapshotSVG(st, id)
		} else {
			b, err = service.SnapshotPNG(st, id)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, b, 0644); err != nil {
			return err
		}
		fmt.Println("Wrote:", filepath.Clean(out))
		return nil
	},
}

var snapBundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Write all snapshots to a portable YAML bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return fmt.Errorf("--out required")
		}
		st := mustLoadState()
		b, err := service.BundleExport(st)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, b, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d snapshots)\n", filepath.Clean(out), len(st.Snapshots))
		return nil
	},
}

var snapImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import snapshots from a YAML bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		if in == "" {
			return fmt.Errorf("--in required")
		}
		replace, _ := cmd.Flags().GetBool("replace")
		b, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		f, err := bundle.Parse(b)
		if err != nil {
			return err
		}
		st := mustLoadState()
		n, err := service.BundleImport(st, f, replace)
		if err != nil {
			return err
		}
		fmt.Println("Imported", n, "snapshots")
		return nil
	},
}

func init() {
	snapCmd.AddCommand(snapLsCmd, snapShowCmd, snapRmCmd, snapExportCmd, snapBundleCmd, snapImportCmd)
	snapShowCmd.Flags().String("id", "", "snapshot id")
	snapShowCmd.Flags().Bool("terminal", false, "render the payload as a terminal QR")
	snapRmCmd.Flags().String("id", "", "snapshot id")
	snapExportCmd.Flags().String("id", "", "snapshot id")
	snapExportCmd.Flags().String("out", "", "output file path (.png or .svg)")
	snapBundleCmd.Flags().String("out", "", "output file path (.yaml)")
	snapImportCmd.Flags().String("in", "", "bundle file path")
	snapImportCmd.Flags().Bool("replace", false, "drop existing snapshots before importing")
}
