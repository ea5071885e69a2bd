package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/vlmscribe/document"
)

func newNERCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		req    document.Request
	)
	cmd := &cobra.Command{
		Use:   "ner <image>",
		Short: "Transcribe an image with named-entity tags",
		Long: `Transcribe an image through the configured Hugging Face Gradio space and
store the tagged tokens as a document. Without HF_TOKEN, or when the space
fails, the document holds a single placeholder entity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}
			req.ImagePath = args[0]
			return runTask(cmd, opts, func(ctx context.Context, svc *services) error {
				doc, err := svc.tagger.Transcribe(ctx, req)
				if err != nil {
					return err
				}
				if format == formatYAML {
					return writeYAML(cmd.OutOrStdout(), doc)
				}
				return writeJSON(cmd.OutOrStdout(), doc)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatJSON, "Output format: json or yaml")
	cmd.Flags().StringVar(&req.Name, "name", "", "Document name (defaults to the image file name)")
	cmd.Flags().StringVar(&req.Model, "model", "", "Override the configured space model")
	cmd.Flags().StringVar(&req.Labels, "labels", "", "Override the configured entity labels")
	return cmd
}
