package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akarpov/claimroute/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimroute",
	Short: "Claimroute - automated insurance claim intake and routing",
	Long: `Claimroute automates the intake of insurance claim documents.

For each document it extracts structured entities, classifies the claim
type, checks the claim against the configured policy coverage and
exclusion rules, and routes it to a handling queue: manual review,
auto-deny, senior adjuster, straight-through processing, or the general
claims queue.

Every run produces a single result record (Success or Failed) with a
human-readable reason; decisions are appended to a local history log.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Claimroute.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimroute v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimroute/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig locates the config file and reads in environment variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.claimroute")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CLAIMROUTE_*
	viper.SetEnvPrefix("CLAIMROUTE")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadRuntimeConfig loads and validates the configuration required to run
// the pipeline. A missing or malformed config file refuses to start rather
// than running with partial rules.
func loadRuntimeConfig() (*model.Config, error) {
	path := cfgFile
	if path == "" {
		path = viper.ConfigFileUsed()
	}
	if path == "" {
		return nil, fmt.Errorf("no configuration file found: pass --config or run 'claimroute config init' and edit %s", "$HOME/.claimroute/config.yaml")
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	cfg.Output.Verbose = verbose
	return cfg, nil
}

// applyClassifierEnv fills provider credentials from the environment, the
// recommended place for them
func applyClassifierEnv(cfg *model.Config) error {
	switch cfg.Classifier.Provider {
	case "openai":
		if cfg.Classifier.APIKey == "" {
			cfg.Classifier.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.Classifier.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if cfg.Classifier.BaseURL == "" {
			cfg.Classifier.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
	return nil
}
