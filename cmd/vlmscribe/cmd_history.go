package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past transcriptions",
	}
	cmd.AddCommand(newHistoryListCommand(opts))
	cmd.AddCommand(newHistoryShowCommand(opts))
	return cmd
}

func newHistoryListCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		limit  int
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transcriptions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}
			return runTask(cmd, opts, func(ctx context.Context, svc *services) error {
				records, err := svc.store.List(ctx)
				if err != nil {
					return err
				}
				if limit > 0 && len(records) > limit {
					records = records[:limit]
				}
				return writeRecords(cmd.OutOrStdout(), format, records)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "Output format: table, json or yaml")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n records (0 for all)")
	return cmd
}

func newHistoryShowCommand(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <timestamp>",
		Short: "Show one transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}
			return runTask(cmd, opts, func(ctx context.Context, svc *services) error {
				rec, err := svc.store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return writeRecord(cmd.OutOrStdout(), format, rec)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatText, "Output format: text, json or yaml")
	return cmd
}
