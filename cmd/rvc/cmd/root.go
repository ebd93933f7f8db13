package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"rvc-service/cmd/rvc/cmd/cache"
	"rvc-service/cmd/rvc/cmd/cli"
	"rvc-service/cmd/rvc/cmd/models"
	"rvc-service/cmd/rvc/cmd/serve"
	"rvc-service/cmd/rvc/cmd/token"
	"rvc-service/cmd/rvc/cmd/version"
	"rvc-service/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rvc",
	Short: "Voice cloning service: train voice models and convert audio over HTTP",
	Long: `A voice cloning service exposing training and conversion over HTTP.

- Upload a voice sample to /train to register a voice model
- Upload source audio to /convert to get it back in the cloned voice
- Runs in mock mode when ffmpeg or the inference runtime is missing`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(models.Cmd)
	rootCmd.AddCommand(cache.Cmd)
	rootCmd.AddCommand(token.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&cli.Flags.ConfigPath, "config", "c", config.DefaultConfigPath(),
		"YAML or TOML config file (default $RVC_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&cli.Flags.Verbose, "verbose", "V", false, "verbose output")
}
