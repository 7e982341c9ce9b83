package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vietdv277/kse/internal/editor"
	"github.com/vietdv277/kse/internal/ui"
)

// LogFileName receives log output while the editor owns the terminal.
const LogFileName = "kse.log"

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the interactive editor",
	Long: `Open a full screen editor with one input per data field and a live
YAML preview. Every keystroke is encoded and saved.

Keys:
  tab / shift+tab   next / previous field
  ctrl+o            open a manifest
  ctrl+y            copy the YAML
  ctrl+s            download secret.yaml
  ctrl+t            toggle light / dark theme
  esc / ctrl+c      quit

Examples:
  kse edit
  kse edit secret.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := getStateDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	log, closeLog, err := getLogger().ToFile(filepath.Join(dir, LogFileName))
	if err != nil {
		return err
	}
	defer closeLog()

	ctrl := newController(editor.WithLogger(log))
	if len(args) == 1 {
		if err := ctrl.LoadFile(args[0]); err != nil {
			return err
		}
	}

	return ui.RunEditor(ctrl, getDownloadDir(cfg))
}
