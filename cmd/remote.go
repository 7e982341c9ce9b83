package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	awscmd "github.com/vietdv277/kse/cmd/aws"
	"github.com/vietdv277/kse/internal/config"
	"github.com/vietdv277/kse/internal/editor"
	"github.com/vietdv277/kse/internal/kube"
	"github.com/vietdv277/kse/internal/ui"
	"github.com/vietdv277/kse/pkg/provider"
	"github.com/vietdv277/kse/pkg/types"
)

// Swapped in tests
var (
	newKubeClient = kube.NewClient
	selectSecret  = ui.SelectSecret
)

var pullCmd = &cobra.Command{
	Use:   "pull [target]",
	Short: "Load a Secret from the cluster or AWS",
	Long: `Fetch a secret and make it the current secret.

A target is "[namespace/]name" for the cluster, "aws:<name>" for AWS
Secrets Manager, "aws:/path" for SSM Parameter Store, or an alias.
Without a target, pick a Secret of the namespace interactively.

Examples:
  kse pull                     # Interactive selector
  kse pull db-credentials -n apps
  kse pull apps/db-credentials
  kse pull aws:/prod/db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPull,
}

var applyCmd = &cobra.Command{
	Use:   "apply [target]",
	Short: "Write the current secret to the cluster or AWS",
	Long: `Create or update the current secret.

Without a target the secret's own name and namespace are used. For AWS
targets every data field is written as decoded text.

Examples:
  kse apply
  kse apply -n staging
  kse apply staging/db-credentials
  kse apply aws:prod/db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List Secrets in the cluster",
	Long: `List the Secrets of a namespace.

Examples:
  kse list
  kse list -n apps`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(listCmd)
}

// getBackend returns the backend serving target and the reference to pass
// it. Aliases are resolved first.
func getBackend(ctx context.Context, cfg *config.Config, target string) (provider.Backend, string, error) {
	providerName, ref := config.ParseTarget(cfg.ResolveAlias(target))

	switch providerName {
	case "aws":
		client, err := awscmd.NewClient(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return client, ref, nil

	case "kube", "":
		client, err := newKubeClient(getKubeconfig(cfg), getNamespace(cfg))
		if err != nil {
			return nil, "", err
		}
		return client, ref, nil

	default:
		return nil, "", fmt.Errorf("%w: %s", provider.ErrNotSupported, providerName)
	}
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl := newController()

	target := ""
	if len(args) == 1 {
		target = args[0]
	} else {
		selected, err := selectClusterSecret(ctx, cfg, stylesFor(ctrl))
		if err != nil {
			return err
		}
		target = selected.Namespace + "/" + selected.Name
	}

	backend, ref, err := getBackend(ctx, cfg, target)
	if err != nil {
		return err
	}

	manifest, err := backend.Fetch(ctx, ref)
	if err != nil {
		return err
	}
	if err := ctrl.Load(manifest); err != nil {
		return err
	}

	doc := ctrl.Document()
	fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s from %s (%d fields)\n", displayName(doc.Name()), backend.Name(), len(doc.Keys()))
	return nil
}

func selectClusterSecret(ctx context.Context, cfg *config.Config, st ui.Styles) (*types.Secret, error) {
	client, err := newKubeClient(getKubeconfig(cfg), getNamespace(cfg))
	if err != nil {
		return nil, err
	}
	secrets, err := client.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return selectSecret(secrets, st)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl := newController()
	if !ctrl.HasDocument() {
		return editor.ErrNoDocument
	}

	target := ""
	if len(args) == 1 {
		target = args[0]
	}
	backend, ref, err := getBackend(ctx, cfg, target)
	if err != nil {
		return err
	}

	// An explicit --namespace beats the manifest's own
	if ns := viper.GetString("namespace"); ns != "" && backend.Name() == "kubernetes" && !strings.Contains(ref, "/") {
		ref = ns + "/" + ref
	}

	result, err := backend.Publish(ctx, ref, []byte(ctrl.Preview()))
	if err != nil {
		return err
	}

	where := result.Namespace
	if where == "" {
		where = backend.Name()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "secret/%s %s in %s (%d keys)\n", result.Name, result.Action, where, result.Keys)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newKubeClient(getKubeconfig(cfg), getNamespace(cfg))
	if err != nil {
		return err
	}

	secrets, err := client.List(ctx, "")
	if err != nil {
		return err
	}
	if len(secrets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No secrets found")
		return nil
	}

	ui.PrintSecretTable(cmd.OutOrStdout(), secrets, stylesFor(newController()))
	return nil
}
