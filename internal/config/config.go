package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultOutput                     = ""
	DefaultRootDirectory              = false
	DefaultIgnoreDotfiles             = false
	DefaultIgnoreWindowsVolumeFolders = false
	DefaultVerbose                    = false
)

// Holds the option set for a verizip run
type Config struct {
	// Explicit path for the output archive; empty means derive one
	// from the source arguments
	OutputPath string

	// Place all files in the zip within a shared parent folder
	RootDirectory bool

	// Skip files and folders whose name begins with '.'
	IgnoreDotfiles bool

	// Skip 'System Volume Information' and '$RECYCLE.BIN' folders
	IgnoreWindowsVolumeFolders bool

	// Enable verbose output
	Verbose bool
}

func Load() (*Config, error) {
	cfg := &Config{
		OutputPath:                 viper.GetString("output"),
		RootDirectory:              viper.GetBool("root_directory"),
		IgnoreDotfiles:             viper.GetBool("ignore_dotfiles"),
		IgnoreWindowsVolumeFolders: viper.GetBool("ignore_windows_volume_folders"),
		Verbose:                    viper.GetBool("verbose"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	// Resolve output path so later phases never depend on the
	// process working directory
	if c.OutputPath != "" {
		abs, err := filepath.Abs(c.OutputPath)
		if err != nil {
			return fmt.Errorf("invalid output path: %v", err)
		}

		c.OutputPath = abs
	}

	return nil
}
