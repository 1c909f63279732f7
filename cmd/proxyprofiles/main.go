package main

import (
	"fmt"
	"os"

	"github.com/massamany/proxyprofiles/internal/commands"
	"github.com/massamany/proxyprofiles/internal/config"
	"github.com/massamany/proxyprofiles/internal/logger"
	"github.com/massamany/proxyprofiles/internal/paths"
	"github.com/massamany/proxyprofiles/internal/profiles"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	configPath       string
	profilesFileFlag string
	backendFlag      string
	verboseFlag      bool
	logFileFlag      string

	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "proxyprofiles",
	Short: "Switch the system proxy between named profiles",
	Long: "proxyprofiles keeps named proxy profiles in ~/.proxyprofile.json, applies them to the " +
		"system proxy settings and tells which profile the current settings match.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: runMainMenu,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("proxyprofiles %s\n", version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "application config file (default ~/.config/proxyprofiles/config.yaml)")
	flags.StringVar(&profilesFileFlag, "profiles-file", "", "profiles file (default ~/.proxyprofile.json)")
	flags.StringVar(&backendFlag, "backend", "", "settings backend: gsettings, sqlite or memory")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&logFileFlag, "log-file", "", "append logs to this file instead of stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(menuCmd)
}

// setup loads the application config, applies flag overrides and starts
// the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("profiles-file") {
		cfg.ProfilesFile = profilesFileFlag
	}
	if flags.Changed("backend") {
		cfg.Backend = backendFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verboseFlag
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFileFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg
	if err := logger.Init(cfg.Verbose, cfg.LogFile); err != nil {
		return err
	}
	if err := profiles.InstallIcons(paths.IconDir()); err != nil {
		logger.Log.Warnf("installing status icons: %v", err)
	}
	return nil
}

func openSession() (*commands.Session, error) {
	return commands.OpenSession(appConfig)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
