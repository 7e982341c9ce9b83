package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vietdv277/kse/internal/config"
)

var aliasCmd = &cobra.Command{
	Use:   "alias [name] [target]",
	Short: "List or define secret aliases",
	Long: `Aliases are short names for pull and apply targets, stored in the
config file.

A target is "[namespace/]name" for the cluster, or "aws:<name>" for AWS
(names starting with / are SSM Parameter Store paths).

Examples:
  kse alias                          # List aliases
  kse alias db kube:apps/db-creds    # Define an alias
  kse alias prod-db aws:/prod/db
  kse pull db`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runAlias,
}

func init() {
	rootCmd.AddCommand(aliasCmd)
}

func runAlias(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch len(args) {
	case 2:
		if err := config.SetAlias(getStateDir(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to save alias: %w", err)
		}
		fmt.Fprintf(out, "Alias %s -> %s\n", args[0], args[1])
		return nil
	case 1:
		return fmt.Errorf("missing target for alias %s", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Aliases) == 0 {
		fmt.Fprintln(out, "No aliases defined")
		return nil
	}

	names := make([]string, 0, len(cfg.Aliases))
	for name := range cfg.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%-20s %s\n", name, cfg.Aliases[name])
	}
	return nil
}
