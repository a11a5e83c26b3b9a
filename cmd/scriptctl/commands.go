package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idive/internal/config"
	scriptSvc "idive/internal/domain/services/script"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.close()

			a.logger.Info("database is up to date", "driver", a.cfg.StorageDriver, "table_prefix", a.cfg.TablePrefix)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int

	command := &cobra.Command{
		Use:   "history <script-id>",
		Short: "List a script's history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			entries, err := a.scripts.ListHistory(cmd.Context(), userID, args[0], limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), entries, outputFormat)
		},
	}

	command.Flags().IntVarP(&limit, "limit", "n", config.DefaultHistoryLimit, "maximum entries to list")
	return command
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <script-id> <entry-id>",
		Short: "Print one history entry with its full content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			entry, err := a.scripts.GetHistoryEntry(cmd.Context(), userID, args[0], args[1])
			if err != nil {
				return err
			}
			return printEntry(cmd.OutOrStdout(), entry, outputFormat)
		},
	}
}

func snapshotCmd() *cobra.Command {
	var label string

	command := &cobra.Command{
		Use:   "snapshot <script-id>",
		Short: "Record the current version as a manual checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			entry, err := a.scripts.Snapshot(cmd.Context(), &scriptSvc.SnapshotRequest{
				ScriptID: args[0],
				UserID:   userID,
				Label:    label,
			})
			if err != nil {
				return err
			}
			return printEntry(cmd.OutOrStdout(), entry, outputFormat)
		},
	}

	command.Flags().StringVarP(&label, "label", "l", "", "label stored with the snapshot")
	return command
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <script-id> <entry-id>",
		Short: "Write a history entry's content as the next version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			script, err := a.scripts.Restore(cmd.Context(), userID, args[0], args[1])
			if err != nil {
				return err
			}
			return printScript(cmd.OutOrStdout(), script, outputFormat)
		},
	}
}

func unknownFormat(format string) error {
	return fmt.Errorf("unknown output format %q (want table or json)", format)
}
