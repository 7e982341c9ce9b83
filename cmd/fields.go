package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vietdv277/kse/internal/editor"
	"github.com/vietdv277/kse/internal/ui"
)

var fieldsCmd = &cobra.Command{
	Use:     "fields",
	Aliases: []string{"ls"},
	Short:   "Show the decoded data fields",
	Long: `Show every data key of the current secret with its decoded value.

Values that are not text are shown as (binary) and cannot be edited.

Examples:
  kse fields
  kse fields --mask`,
	Args: cobra.NoArgs,
	RunE: runFields,
}

var setCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Edit one data field",
	Long: `Set the decoded value of an existing data key. The value is base64
encoded into the manifest and the preview is saved.

Use --stdin for values with newlines, such as certificates. Input is
taken verbatim, including a trailing newline.

Examples:
  kse set password s3cr3t
  kse set tls.crt --stdin < server.crt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSet,
}

var (
	fieldsMask bool
	setStdin   bool
)

func init() {
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(setCmd)

	fieldsCmd.Flags().BoolVarP(&fieldsMask, "mask", "m", false, "hide values")
	setCmd.Flags().BoolVar(&setStdin, "stdin", false, "read the value from stdin")
}

func runFields(cmd *cobra.Command, args []string) error {
	ctrl := newController()
	if !ctrl.HasDocument() {
		return editor.ErrNoDocument
	}

	fields := ctrl.Fields()
	if len(fields) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No data fields")
		return nil
	}

	ui.PrintFieldTable(cmd.OutOrStdout(), fields, stylesFor(ctrl), fieldsMask)
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	key := args[0]

	var value string
	switch {
	case setStdin && len(args) == 2:
		return fmt.Errorf("give the value as an argument or with --stdin, not both")
	case setStdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		value = string(data)
	case len(args) == 2:
		value = args[1]
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := newController().Edit(key, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated data.%s\n", key)
	return nil
}
