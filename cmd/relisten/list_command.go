package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"relisten/internal/config"
	"relisten/internal/library"
)

func newListCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list [folder]",
		Short: "Print the recordings in a folder, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFlag)
			if err != nil {
				return err
			}

			dir := cfg.LibraryDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no folder given and library_dir is not configured")
			}

			recs, err := library.Scan(dir)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(recs))
			for _, rec := range recs {
				rows = append(rows, []string{
					rec.Name,
					fmt.Sprintf("%s-%s-%s", rec.Year, rec.Month, rec.Day),
					rec.Clock,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Date", "Time"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d recordings\n", len(recs))
			return nil
		},
	}
}
