package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-tracker/internal/forms"
	"github.com/p-n-ai/pai-tracker/internal/nav"
)

func (r *runner) exportCmd() *cobra.Command {
	var topics []string
	cmd := &cobra.Command{
		Use:   "export FILE.xlsx",
		Short: "Export topics, and the questions of chosen topics, to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
				return fmt.Errorf("%s: export file must end in .xlsx", path)
			}
			for _, slug := range topics {
				if err := forms.ValidateSlug(slug); err != nil {
					return fmt.Errorf("--topic %s: %w", slug, err)
				}
			}
			if err := r.require(nav.PathHome); err != nil {
				return err
			}

			wb, err := r.app.Exporter().ExportFile(cmd.Context(), path, topics)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d topics and %d questions to %s\n",
				len(wb.Topics), len(wb.Questions), path)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&topics, "topic", nil, "include the questions of this topic, repeatable")
	return cmd
}
