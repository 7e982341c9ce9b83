package aws

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/kse/internal/aws"
	"github.com/vietdv277/kse/internal/config"
	"github.com/vietdv277/kse/internal/editor"
)

// AWSCmd is the root command for AWS-specific operations
var AWSCmd = &cobra.Command{
	Use:   "aws",
	Short: "AWS Secrets Manager and SSM commands",
	Long: `Move the current secret to and from AWS.

Names starting with / are SSM Parameter Store paths, one SecureString
parameter per data key. Other names are Secrets Manager secrets holding
a JSON object of the decoded values.

Examples:
  kse aws publish prod/db
  kse aws publish /prod/db
  kse aws import prod/db
  kse aws whoami`,
}

// Set by the root command
var (
	NewSession func() *editor.Controller
	LoadConfig func() (*config.Config, error)
)

// NewClient builds the AWS client for the active profile and region;
// tests swap it for one backed by stubs.
var NewClient = func(ctx context.Context, cfg *config.Config) (*aws.Client, error) {
	client, err := aws.NewClient(ctx,
		aws.WithProfile(Profile(cfg)),
		aws.WithRegion(Region(cfg)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}
	return client, nil
}

func init() {
	AWSCmd.AddCommand(publishCmd)
	AWSCmd.AddCommand(importCmd)
	AWSCmd.AddCommand(whoamiCmd)
	AWSCmd.AddCommand(profilesCmd)
}

// Profile returns the AWS profile.
// Priority: --profile > KSE_PROFILE > config file > AWS_PROFILE
func Profile(cfg *config.Config) string {
	if p := viper.GetString("profile"); p != "" {
		return p
	}
	if cfg != nil && cfg.AWSProfile != "" {
		return cfg.AWSProfile
	}
	return os.Getenv("AWS_PROFILE")
}

// Region returns the AWS region.
// Priority: --region > KSE_REGION > config file > AWS_REGION > AWS_DEFAULT_REGION
func Region(cfg *config.Config) string {
	if r := viper.GetString("region"); r != "" {
		return r
	}
	if cfg != nil && cfg.AWSRegion != "" {
		return cfg.AWSRegion
	}
	if r := os.Getenv("AWS_REGION"); r != "" {
		return r
	}
	return os.Getenv("AWS_DEFAULT_REGION")
}

// getClient loads the config and builds the client
func getClient(ctx context.Context) (*aws.Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, cfg)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
