package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	awscmd "github.com/vietdv277/kse/cmd/aws"
	"github.com/vietdv277/kse/internal/clipboard"
	"github.com/vietdv277/kse/internal/config"
	"github.com/vietdv277/kse/internal/editor"
	"github.com/vietdv277/kse/internal/logging"
	"github.com/vietdv277/kse/internal/store"
	"github.com/vietdv277/kse/internal/ui"
)

var (
	// Global flags
	stateDir   string
	namespace  string
	kubeconfig string
	profile    string
	region     string
	verbose    bool
	debug      bool
)

// clipboardWriter backs kse copy; tests swap it.
var clipboardWriter clipboard.Writer = clipboard.System{}

var rootCmd = &cobra.Command{
	Use:   "kse",
	Short: "kse - Kubernetes Secret editor",
	Long: `kse loads a Kubernetes Secret manifest, shows its base64 data as plain
text, lets you edit the values, and writes the result back as YAML.

The current secret and theme are kept in the state directory (~/.kse),
so every command picks up where the last one left off.

Editing:
  kse load secret.yaml          # Load a manifest (use - for stdin)
  kse fields                    # Show decoded data fields
  kse set password s3cr3t       # Edit one field
  kse show                      # Print the highlighted YAML
  kse edit                      # Interactive editor

Export:
  kse copy                      # Copy the YAML to the clipboard
  kse download -o ./out         # Write ./out/secret.yaml

Cluster and AWS:
  kse pull apps/db-credentials  # Load a Secret from the cluster
  kse apply -n staging          # Create or update it in the cluster
  kse aws publish /prod/db      # Store the values in SSM Parameter Store`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&stateDir, "state-dir", "", "directory holding state and config (default ~/.kse)")
	flags.StringVarP(&namespace, "namespace", "n", "", "Kubernetes namespace")
	flags.StringVar(&kubeconfig, "kubeconfig", "", "path to the kubeconfig file")
	flags.StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	flags.StringVarP(&region, "region", "r", "", "AWS region to use")
	flags.BoolVarP(&verbose, "verbose", "v", false, "show informational messages")
	flags.BoolVar(&debug, "debug", false, "show debug messages")

	// Bind flags to viper
	for _, name := range []string{"state-dir", "namespace", "kubeconfig", "profile", "region", "verbose", "debug"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetDefault("state-dir", config.GetStateDir())

	rootCmd.AddCommand(awscmd.AWSCmd)
	awscmd.NewSession = func() *editor.Controller { return newController() }
	awscmd.LoadConfig = loadConfig
}

func initConfig() {
	// Read from environment variables, e.g. KSE_STATE_DIR
	viper.SetEnvPrefix("KSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// getStateDir returns the state directory: --state-dir > KSE_STATE_DIR > ~/.kse
func getStateDir() string {
	return viper.GetString("state-dir")
}

// getLogger returns the logger configured by --verbose and --debug
func getLogger() logging.Logger {
	return logging.Logger{
		Verbose: viper.GetBool("verbose"),
		Debug:   viper.GetBool("debug"),
		Out:     os.Stderr,
	}
}

// loadConfig reads the user config from the state directory
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getStateDir())
}

// newController opens the editor session stored in the state directory
func newController(opts ...editor.Option) *editor.Controller {
	base := []editor.Option{
		editor.WithLogger(getLogger()),
		editor.WithClipboard(clipboardWriter),
	}
	return editor.New(store.NewFileStore(getStateDir()), append(base, opts...)...)
}

// getNamespace returns the namespace: --namespace > KSE_NAMESPACE > config file
func getNamespace(cfg *config.Config) string {
	if ns := viper.GetString("namespace"); ns != "" {
		return ns
	}
	return cfg.Namespace
}

// getKubeconfig returns the kubeconfig path: --kubeconfig > KSE_KUBECONFIG > config file
func getKubeconfig(cfg *config.Config) string {
	if path := viper.GetString("kubeconfig"); path != "" {
		return path
	}
	return cfg.Kubeconfig
}

// getDownloadDir returns where download writes secret.yaml
func getDownloadDir(cfg *config.Config) string {
	if cfg.DownloadDir != "" {
		return cfg.DownloadDir
	}
	return "."
}

// stylesFor returns the styles of the session's current theme
func stylesFor(ctrl *editor.Controller) ui.Styles {
	return ui.NewStyles(ctrl.Theme().Assets())
}
