package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/stamp/internal/export"
)

func newSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage snapshots stored in the database",
	}
	cmd.AddCommand(newSnapshotsListCmd(), newSnapshotsShowCmd(), newSnapshotsDeleteCmd())
	return cmd
}

func newSnapshotsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeRepo, err := openSnapshotRepository(cmd.Context(), &current.cfg.Database)
			if err != nil {
				return err
			}
			defer closeRepo()

			snaps, err := repo.ListSnapshots(cmd.Context(), limit)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Created", "Classes", "Renamed", "Preserved"})
			table.SetAutoFormatHeaders(false)
			table.SetBorder(false)
			table.SetCenterSeparator("")
			for _, s := range snaps {
				table.Append([]string{
					s.ID,
					s.CreatedAt.Format("2006-01-02 15:04:05"),
					fmt.Sprintf("%d", s.Stats.Classes),
					fmt.Sprintf("%d", s.Stats.Obfuscated),
					fmt.Sprintf("%d", s.Stats.Preserved),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of snapshots")
	return cmd
}

func newSnapshotsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := openSnapshotRepository(cmd.Context(), &current.cfg.Database)
			if err != nil {
				return err
			}
			defer closeRepo()

			snap, err := repo.GetSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w, err := export.WriterFor(export.FormatJSON, true)
			if err != nil {
				return err
			}
			return w.Write(snap, cmd.OutOrStdout())
		},
	}
}

func newSnapshotsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeRepo, err := openSnapshotRepository(cmd.Context(), &current.cfg.Database)
			if err != nil {
				return err
			}
			defer closeRepo()

			if err := repo.DeleteSnapshot(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", args[0])
			return nil
		},
	}
}
