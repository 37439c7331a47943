package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/backup"
)

func newBackupCmd() *cobra.Command {
	var (
		list  bool
		prune int
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and manage backups",
		Long: `Creates a timestamped copy of the board and history snapshots.
Backups are stored in <data_dir>/backups/ and can be restored later.`,
		Example: `  # Create a new backup
  taskboard backup

  # List all available backups
  taskboard backup --list

  # Keep only the five most recent backups
  taskboard backup --prune 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			manager := backup.NewManager(e.repo.Store(), e.cfg.GetDataDir(), version)
			switch {
			case list:
				return listBackups(cmd, manager)
			case cmd.Flags().Changed("prune"):
				return pruneBackups(cmd, manager, prune)
			default:
				return createBackup(cmd, manager)
			}
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available backups")
	cmd.Flags().IntVar(&prune, "prune", 0, "delete all but the N most recent backups")
	cmd.MarkFlagsMutuallyExclusive("list", "prune")
	return cmd
}

func createBackup(cmd *cobra.Command, manager *backup.Manager) error {
	name, err := manager.Create(cmd.Context())
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		return fmt.Errorf("reading backup info: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Backup created: %s\n", name)
	fmt.Fprintf(out, "  Sections: %d, Tasks: %d, History items: %d\n",
		info.Stats["sections"], info.Stats["tasks"], info.Stats["history_items"])
	fmt.Fprintf(out, "  Location: %s\n", info.Path)
	return nil
}

func listBackups(cmd *cobra.Command, manager *backup.Manager) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups available.")
		fmt.Fprintln(out, "Run 'taskboard backup' to create one.")
		return nil
	}

	fmt.Fprintln(out, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(out, "  %s  (%s)   Tasks: %d, History items: %d\n",
			b.Name, formatAge(time.Since(b.CreatedAt)), b.Stats["tasks"], b.Stats["history_items"])
	}
	return nil
}

func pruneBackups(cmd *cobra.Command, manager *backup.Manager, keep int) error {
	if keep < 1 {
		return fmt.Errorf("--prune needs at least 1, got %d", keep)
	}
	removed, err := manager.Prune(keep)
	if err != nil {
		return fmt.Errorf("pruning backups: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d old backup(s), kept the %d most recent\n", removed, keep)
	return nil
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	default:
		return plural(int(d.Hours()/24/7), "week") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
