package aws

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/kse/internal/ui"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current AWS identity",
	Long: `Display the AWS caller identity used by publish and import.

Equivalent to 'aws sts get-caller-identity'.

Examples:
  kse aws whoami
  kse aws whoami --profile prod`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := contextOf(cmd)

	client, err := getClient(ctx)
	if err != nil {
		return err
	}

	identity, err := client.GetCallerIdentity(ctx)
	if err != nil {
		return err
	}

	st := ui.NewStyles(NewSession().Theme().Assets())
	profile := client.Profile()
	if profile == "" {
		profile = "(default)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, st.Header.Render("AWS Identity"))
	fmt.Fprintln(out, st.Muted.Render("───────────────────────────────"))
	fmt.Fprintf(out, "  Profile: %s\n", profile)
	fmt.Fprintf(out, "  Region:  %s\n", client.Region())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Account: %s\n", identity.Account)
	fmt.Fprintf(out, "  UserID:  %s\n", identity.UserID)
	fmt.Fprintf(out, "  ARN:     %s\n", st.Muted.Render(identity.Arn))

	return nil
}
