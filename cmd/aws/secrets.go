package aws

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/kse/internal/editor"
)

var publishCmd = &cobra.Command{
	Use:   "publish [name]",
	Short: "Publish the current secret to AWS",
	Long: `Write every data field of the current secret to AWS as decoded text.

Without a name the secret's metadata.name is used as the Secrets Manager
name. Binary fields cannot be published.

Examples:
  kse aws publish                # Secrets Manager, named after the secret
  kse aws publish prod/db        # Secrets Manager secret prod/db
  kse aws publish /prod/db       # SSM parameters /prod/db/<key>`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

var importCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Load an AWS secret as a Kubernetes Secret",
	Long: `Read a Secrets Manager secret (a JSON object or a plain string) or
all SSM parameters under a path, and make them the current secret.

Examples:
  kse aws import prod/db
  kse aws import /prod/db`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)

	ctrl := NewSession()
	if !ctrl.HasDocument() {
		return editor.ErrNoDocument
	}

	client, err := getClient(ctx)
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	result, err := client.Publish(ctx, name, []byte(ctrl.Preview()))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d keys)\n", result.Name, result.Action, result.Keys)
	if result.ARN != "" && result.ARN != result.Name {
		fmt.Fprintf(cmd.OutOrStdout(), "  ARN: %s\n", result.ARN)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)

	client, err := getClient(ctx)
	if err != nil {
		return err
	}

	manifest, err := client.Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	ctrl := NewSession()
	if err := ctrl.Load(manifest); err != nil {
		return err
	}

	doc := ctrl.Document()
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as secret %s (%d fields)\n", args[0], doc.Name(), len(doc.Keys()))
	return nil
}
