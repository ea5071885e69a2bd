package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/vlmscribe/api"
)

func newModelsCommand(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the supported models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return writeModels(cmd, format, api.ModelViews(cfg.Configured()))
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "Output format: table, json or yaml")
	return cmd
}

func writeModels(cmd *cobra.Command, format string, models []api.ModelView) error {
	w := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		return writeJSON(w, models)
	case formatYAML:
		return writeYAML(w, models)
	}
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		key := "missing"
		if m.Configured {
			key = "configured"
		}
		rows = append(rows, []string{m.ID, m.Name, m.Provider, key})
	}
	return writeTable(w, []string{"MODEL", "NAME", "PROVIDER", "API KEY"}, rows)
}
