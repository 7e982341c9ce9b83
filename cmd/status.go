package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	awscmd "github.com/vietdv277/kse/cmd/aws"
	"github.com/vietdv277/kse/internal/kube"
	"github.com/vietdv277/kse/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current secret and settings",
	Long: `Display the current secret, the theme, and the defaults used for
cluster and AWS commands.

Examples:
  kse status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctrl := newController()
	st := stylesFor(ctrl)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current Status")
	fmt.Fprintln(out, st.Muted.Render("─────────────────────────────────"))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "State:     %s\n", store.NewFileStore(getStateDir()).Path())
	fmt.Fprintf(out, "Theme:     %s %s\n", ctrl.Theme().Mode(), ctrl.Theme().Assets().Icon)

	if doc := ctrl.Document(); doc != nil {
		fmt.Fprintf(out, "Secret:    %s\n", st.Header.Render(displayName(doc.Name())))
		if ns := doc.Namespace(); ns != "" {
			fmt.Fprintf(out, "Namespace: %s\n", ns)
		}
		fmt.Fprintf(out, "Fields:    %d\n", len(doc.Keys()))
	} else {
		fmt.Fprintf(out, "Secret:    %s\n", st.Muted.Render("(none)"))
	}
	fmt.Fprintln(out)

	ns := getNamespace(cfg)
	if ns == "" {
		ns = kube.DefaultNamespace
	}
	fmt.Fprintf(out, "Cluster namespace: %s\n", ns)

	awsProfile := awscmd.Profile(cfg)
	if awsProfile == "" {
		awsProfile = st.Muted.Render("(default)")
	}
	fmt.Fprintf(out, "AWS profile:       %s\n", awsProfile)

	if !ctrl.HasDocument() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "No secret loaded. Start with:")
		fmt.Fprintln(out, "  kse load secret.yaml")
		fmt.Fprintln(out, "  kse pull <name>")
	}
	return nil
}
