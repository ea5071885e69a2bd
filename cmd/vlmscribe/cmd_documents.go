package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newDocumentsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Browse entity-tagged documents",
	}
	cmd.AddCommand(newDocumentsListCommand(opts))
	cmd.AddCommand(newDocumentsShowCommand(opts))
	return cmd
}

func newDocumentsListCommand(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List documents, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}
			return runTask(cmd, opts, func(ctx context.Context, svc *services) error {
				docs, err := svc.documents.List(ctx)
				if err != nil {
					return err
				}
				return writeDocuments(cmd.OutOrStdout(), format, docs)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "Output format: table, json or yaml")
	return cmd
}

func newDocumentsShowCommand(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}
			return runTask(cmd, opts, func(ctx context.Context, svc *services) error {
				doc, err := svc.documents.Get(ctx, args[0])
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
	return cmd
}
