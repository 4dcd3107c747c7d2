package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		setupViper func()
		wantConfig *Config
	}{
		{
			name: "load with all defaults",
			setupViper: func() {
				viper.Reset()
				viper.SetDefault("output", DefaultOutput)
				viper.SetDefault("root_directory", DefaultRootDirectory)
				viper.SetDefault("ignore_dotfiles", DefaultIgnoreDotfiles)
				viper.SetDefault("ignore_windows_volume_folders", DefaultIgnoreWindowsVolumeFolders)
				viper.SetDefault("verbose", DefaultVerbose)
			},
			wantConfig: &Config{
				OutputPath:                 "",
				RootDirectory:              false,
				IgnoreDotfiles:             false,
				IgnoreWindowsVolumeFolders: false,
				Verbose:                    false,
			},
		},
		{
			name: "load with custom values",
			setupViper: func() {
				viper.Reset()
				viper.Set("output", "my-archive.zip")
				viper.Set("root_directory", true)
				viper.Set("ignore_dotfiles", true)
				viper.Set("ignore_windows_volume_folders", true)
				viper.Set("verbose", true)
			},
			wantConfig: &Config{
				OutputPath: func() string {
					abs, _ := filepath.Abs("my-archive.zip")
					return abs
				}(),
				RootDirectory:              true,
				IgnoreDotfiles:             true,
				IgnoreWindowsVolumeFolders: true,
				Verbose:                    true,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.setupViper()

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, test.wantConfig, cfg)
		})
	}
}

func TestValidate_ResolvesOutputPath(t *testing.T) {
	cfg := &Config{OutputPath: "relative/out.zip"}

	err := cfg.Validate()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.OutputPath))
}

func TestValidate_EmptyOutputPathUntouched(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.OutputPath)
}
