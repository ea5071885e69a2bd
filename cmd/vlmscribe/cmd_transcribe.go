package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/vlmscribe/scribe"
	"github.com/kbukum/vlmscribe/transcription"
	"github.com/kbukum/vlmscribe/validation"
)

func newTranscribeCommand(opts *rootOptions) *cobra.Command {
	var (
		model  string
		prompt string
		format string
	)
	cmd := &cobra.Command{
		Use:   "transcribe <image>",
		Short: "Transcribe the text in an image",
		Long: `Send an image to a vision model and print the transcription. The attempt
is recorded in the history whether or not the provider call succeeds.`,
		Example: `  vlmscribe transcribe letter.png
  vlmscribe transcribe letter.png --model claude-3-vision --prompt "Keep the line breaks"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}
			req := scribe.Request{ImagePath: args[0], Prompt: prompt, Model: model}
			if err := validation.Validate(req); err != nil {
				return err
			}
			return runTask(cmd, opts, func(ctx context.Context, svc *services) error {
				rec, err := svc.scribe.Transcribe(ctx, req)
				if err != nil {
					return err
				}
				if format == formatText {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), rec.Response)
					return err
				}
				return writeRecord(cmd.OutOrStdout(), format, rec)
			})
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", string(transcription.ModelGPT4Vision), "Model identifier (see 'vlmscribe models')")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Additional instruction appended to the transcription prompt")
	cmd.Flags().StringVarP(&format, "output", "o", formatText, "Output format: text, json or yaml")
	return cmd
}
