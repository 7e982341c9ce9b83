package aws

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/kse/internal/aws"
	"github.com/vietdv277/kse/internal/config"
	"github.com/vietdv277/kse/internal/ui"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List AWS profiles",
	Long: `List AWS profiles from ~/.aws/credentials and ~/.aws/config.
The active profile is marked.

Examples:
  kse aws profiles
  kse aws profiles use prod`,
	Args: cobra.NoArgs,
	RunE: runProfilesList,
}

var profilesUseCmd = &cobra.Command{
	Use:   "use <profile-name>",
	Short: "Save the default AWS profile",
	Long: `Save a profile as the default for publish, import and whoami.

The profile is saved to the kse config file. --profile and KSE_PROFILE
still take precedence.

Examples:
  kse aws profiles use production`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesUse,
}

// awsConfigDir is where profiles are read from; tests point it elsewhere.
var awsConfigDir = aws.ConfigDir

func init() {
	profilesCmd.AddCommand(profilesUseCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	profiles, err := aws.ListProfiles(awsConfigDir())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No AWS profiles found")
		fmt.Fprintln(out, "Create profiles in ~/.aws/credentials or ~/.aws/config")
		return nil
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	st := ui.NewStyles(NewSession().Theme().Assets())
	ui.PrintProfileTable(out, profiles, Profile(cfg), st)
	return nil
}

func runProfilesUse(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Validate profile exists
	if !aws.HasProfile(awsConfigDir(), name) {
		return fmt.Errorf("profile %q not found", name)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg.AWSProfile = name

	dir := viper.GetString("state-dir")
	if err := config.SaveConfig(dir, cfg); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile set to: %s\n", name)
	fmt.Fprintf(out, "Saved to: %s\n", config.GetConfigPath(dir))
	return nil
}
