package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/kse/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme [toggle|light|dark]",
	Short: "Show or change the theme",
	Long: `Show the current theme, flip it, or set it explicitly. The choice
is saved and used by show, fields and edit.

Examples:
  kse theme
  kse theme toggle
  kse theme dark`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"toggle", string(theme.Light), string(theme.Dark)},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	ctrl := newController()

	if len(args) == 1 {
		if args[0] == "toggle" {
			if _, err := ctrl.ToggleTheme(); err != nil {
				return err
			}
		} else {
			mode, err := theme.ParseMode(args[0])
			if err != nil {
				return err
			}
			if err := ctrl.Theme().Set(mode); err != nil {
				return err
			}
		}
	}

	st := stylesFor(ctrl)
	assets := ctrl.Theme().Assets()
	fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s %s\n", st.Accent.Render(string(ctrl.Theme().Mode())), assets.Icon)
	return nil
}
