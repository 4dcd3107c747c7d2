package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verizip/verizip/internal/codes"
	"github.com/verizip/verizip/internal/config"
	"github.com/verizip/verizip/internal/runner"
	"github.com/verizip/verizip/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "verizip <path>...",
	Short:         "Create hash-verified zip archives",
	Long:          `Compress files and folders into a zip archive and verify, file by file, that the content stored in the archive matches the source on disk.`,
	RunE:          runZip,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.MinimumNArgs(1),
}

// exitCode carries the mapped failure code from runZip out to Execute
var exitCode int

// errReported marks failures the runner has already written to stderr,
// so Execute does not print them a second time
var errReported = errors.New("failure already reported")

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		if exitCode == codes.OK {
			exitCode = codes.General
		}
	}

	if exitCode != codes.OK {
		os.Exit(exitCode)
	}
}

func runZip(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader().Load(cmd)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	code, summary := runner.New(cwd).Run(args, cfg)
	if code != codes.OK {
		exitCode = code
		return errReported
	}

	fmt.Println(summary)

	return nil
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.Flags().StringP("output", "o", "", "Filename for the zip archive")
	rootCmd.Flags().BoolP("root-directory", "d", false, "Place all files in the zip within a shared parent folder")
	rootCmd.Flags().Bool("ignore-dotfiles", false, "Ignore files and folders beginning with '.' (typically these are hidden folders)")
	rootCmd.Flags().Bool("ignore-windows-volume-folders", false, "Ignore folders named 'System Volume Information' and '$RECYCLE.BIN' (typically these contain hidden system information)")
	rootCmd.Flags().BoolP("verbose", "v", false, "Verbose output")

	viper.SetDefault("output", config.DefaultOutput)
	viper.SetDefault("root_directory", config.DefaultRootDirectory)
	viper.SetDefault("ignore_dotfiles", config.DefaultIgnoreDotfiles)
	viper.SetDefault("ignore_windows_volume_folders", config.DefaultIgnoreWindowsVolumeFolders)
	viper.SetDefault("verbose", config.DefaultVerbose)
}
