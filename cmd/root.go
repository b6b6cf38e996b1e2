package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"voicespeaker/config"
	"voicespeaker/speaker"
	"voicespeaker/voice"
)

type rootOptions struct {
	configPath string
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "voicespeaker",
		Short:         "Multilingual text to speech with romanized Urdu and Hindi input",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		serveCmd(opts),
		speakCmd(opts),
		convertCmd(),
		languagesCmd(),
	)
	return root
}

// Execute runs the CLI until ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd().ExecuteContext(ctx)
}

// loadConfig reads the config and sets up logging for commands that talk
// to a provider.
func (opts *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config; %w", err)
	}
	if err := cfg.SetupLogging(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newService(cfg *config.Config) (*speaker.Service, error) {
	synth, err := voice.New(cfg.Provider, cfg.Voice())
	if err != nil {
		return nil, fmt.Errorf("failed to create tts provider; %w", err)
	}
	return speaker.NewService(synth, cfg.MaxTextLength), nil
}
