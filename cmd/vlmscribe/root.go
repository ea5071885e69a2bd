package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/vlmscribe/version"
)

type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
}

func (o *rootOptions) load() (*AppConfig, error) {
	cfg, err := loadConfig(o.configFile, o.envFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "vlmscribe",
		Short: "Transcribe images with vision-language models",
		Long: `vlmscribe sends images to OpenAI, Google or Anthropic vision models for
text transcription and keeps every attempt in a browsable history.

API keys are read from OPENAI_API_KEY, GOOGLE_API_KEY and ANTHROPIC_API_KEY.
HF_TOKEN enables entity-tagged transcription through a Hugging Face space.`,
		Version:       version.GetVersionInfo().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to config.yml")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to a .env file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newTranscribeCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newModelsCommand(opts))
	cmd.AddCommand(newNERCommand(opts))
	cmd.AddCommand(newDocumentsCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}
