package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/kse/internal/editor"
	"github.com/vietdv277/kse/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the YAML preview",
	Long: `Print the current secret as YAML, highlighted for the active theme.

Examples:
  kse show
  kse show --plain > secret.yaml`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the YAML preview to the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runCopy,
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Write the YAML preview to secret.yaml",
	Long: `Write the YAML preview to secret.yaml in the output directory.

The directory defaults to download_dir from the config file, or the
current directory.

Examples:
  kse download
  kse download -o ./manifests`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

var (
	showPlain   bool
	downloadDir string
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(downloadCmd)

	showCmd.Flags().BoolVar(&showPlain, "plain", false, "print without colors")
	downloadCmd.Flags().StringVarP(&downloadDir, "output", "o", "", "output directory")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctrl := newController()
	preview := ctrl.Preview()
	if preview == "" {
		return editor.ErrNoDocument
	}

	out := cmd.OutOrStdout()
	if showPlain {
		fmt.Fprint(out, preview)
		return nil
	}

	highlighted, err := ui.Highlight(preview, ctrl.Theme().Assets().Highlight)
	if err != nil {
		return err
	}
	fmt.Fprint(out, highlighted)
	return nil
}

func runCopy(cmd *cobra.Command, args []string) error {
	if err := newController().Copy(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.MsgCopied)
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	dir := downloadDir
	if dir == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir = getDownloadDir(cfg)
	}

	path, err := newController().Download(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.MsgDownloaded, path)
	return nil
}
