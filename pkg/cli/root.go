// Package cli provides the command-line interface for Packline
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packline/packline/pkg/config"
	"github.com/packline/packline/pkg/types"
)

var (
	cfgFile   string
	verbosity string
	version   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "packline",
	Short: "Industrial quality control and packing for the production line",
	Long: `🏭 Packline - Inspection and packing engine for production parts

Packline registers parts with their physical attributes, validates them
against tolerance rules, and packs approved parts into fixed-capacity
boxes in arrival order. Batches can be imported from CSV files, either
one at a time or continuously from a drop directory.`,

	Run: func(cmd *cobra.Command, args []string) {
		// Check if version flag is set
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("🏭 Packline v%s\n", version)
			return
		}
		// If no subcommand, show help
		cmd.Help()
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v

	// Initialize the root command explicitly (avoiding init())
	initializeRootCommand()

	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
// This replaces the init() function to make initialization explicit and testable.
func initializeRootCommand() {
	// Set up config initialization
	cobra.OnInitialize(initViper)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: packline.config.json)")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")

	// Add version flag
	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	// Add subcommands
	rootCmd.AddCommand(newShellCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initViper() {
	if cfgFile != "" {
		// Use config file from flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in the working directory
		viper.AddConfigPath(".")
		viper.SetConfigName("packline.config")
		viper.SetConfigType("json")
	}

	// Read in environment variables
	viper.SetEnvPrefix("PACKLINE")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		if verbosity == "debug" {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Helper functions

func printSuccess(message string) {
	fmt.Printf("🏭 %s %s\n", color.GreenString("[Packline]"), message)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "🏭 %s %s\n", color.RedString("[Packline]"), message)
}

func printInfo(message string) {
	fmt.Printf("🏭 %s %s\n", color.CyanString("[Packline]"), message)
}

func printWarning(message string) {
	fmt.Printf("🏭 %s %s\n", color.YellowString("[Packline]"), message)
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(".", "packline.config.json")
}

// loadOrDefaultConfig loads the config file, falling back to defaults
// when none exists
func loadOrDefaultConfig() (*types.PacklineConfig, error) {
	path := getConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return types.DefaultConfig(), nil
	}

	manager := config.NewManager()
	cfg, err := manager.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func logLevel(cfg *types.PacklineConfig) string {
	if verbosity != "" && verbosity != "info" {
		return verbosity
	}
	if cfg.Logging != nil && cfg.Logging.Level != "" {
		return cfg.Logging.Level
	}
	return verbosity
}

func logFile(cfg *types.PacklineConfig) string {
	if cfg.Logging != nil {
		return cfg.Logging.File
	}
	return ""
}
