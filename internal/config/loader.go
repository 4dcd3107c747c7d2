package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Loader handles configuration loading from flags and environment
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load resolves the option set for a run from defaults, VERIZIP_*
// environment variables, and command flags (highest precedence).
// No config file is consulted; the tool keeps no state between runs.
func (l *Loader) Load(cmd *cobra.Command) (*Config, error) {
	l.setupViperDefaults()
	l.bindEnvironment()
	l.bindCommandFlags(cmd)

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("output", DefaultOutput)
	viper.SetDefault("root_directory", DefaultRootDirectory)
	viper.SetDefault("ignore_dotfiles", DefaultIgnoreDotfiles)
	viper.SetDefault("ignore_windows_volume_folders", DefaultIgnoreWindowsVolumeFolders)
	viper.SetDefault("verbose", DefaultVerbose)
}

// bindEnvironment enables VERIZIP_-prefixed environment overrides
func (l *Loader) bindEnvironment() {
	viper.SetEnvPrefix("VERIZIP")
	viper.AutomaticEnv()
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("root_directory", cmd.Flags().Lookup("root-directory"))
	_ = viper.BindPFlag("ignore_dotfiles", cmd.Flags().Lookup("ignore-dotfiles"))
	_ = viper.BindPFlag("ignore_windows_volume_folders", cmd.Flags().Lookup("ignore-windows-volume-folders"))
	_ = viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
}
