package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <file|->",
	Short: "Load a Secret manifest",
	Long: `Load a Kubernetes Secret manifest and make it the current secret.

The manifest must have kind Secret, an apiVersion starting with v1, and
base64 values under data. A manifest that fails these checks is rejected
and the current secret is kept.

Examples:
  kse load secret.yaml
  kubectl get secret db -o yaml | kse load -`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the current secret",
	Long: `Remove the current secret from the state directory. The theme
preference is kept.

Examples:
  kse reset`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(resetCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctrl := newController()

	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		if err := ctrl.Load(data); err != nil {
			return err
		}
	} else if err := ctrl.LoadFile(args[0]); err != nil {
		return err
	}

	doc := ctrl.Document()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded secret %s (%d fields)\n", displayName(doc.Name()), len(doc.Keys()))
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := newController().Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Current secret cleared")
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
