package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/backup"
)

func newRestoreCmd() *cobra.Command {
	var latest, force bool

	cmd := &cobra.Command{
		Use:   "restore [BACKUP_NAME]",
		Short: "Restore data from a backup",
		Long: `Restores the board and history from a backup.
A safety backup of the current data is created before anything is overwritten.
Use 'taskboard backup --list' to see available backups.`,
		Example: `  # Restore from a specific backup
  taskboard restore 2026-10-16_143022_000

  # Restore from the most recent backup
  taskboard restore --latest

  # Restore without confirmation prompt
  taskboard restore --force 2026-10-16_143022_000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest == (len(args) == 1) {
				return errors.New("give either a backup name or --latest")
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			manager := backup.NewManager(e.repo.Store(), e.cfg.GetDataDir(), version)

			var name string
			if latest {
				backups, err := manager.List()
				if err != nil {
					return fmt.Errorf("listing backups: %w", err)
				}
				if len(backups) == 0 {
					return errors.New("no backups available")
				}
				name = backups[0].Name
			} else {
				name = args[0]
			}

			info, err := manager.GetBackup(name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  Sections: %d, Tasks: %d, History items: %d\n\n",
				info.Stats["sections"], info.Stats["tasks"], info.Stats["history_items"])

			if !force {
				ok, err := confirm(cmd, "⚠ This will overwrite your current data.\nContinue? [y/N] ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			fmt.Fprintln(out, "✓ Creating safety backup first...")
			if err := manager.Restore(cmd.Context(), name); err != nil {
				return fmt.Errorf("restoring backup: %w", err)
			}
			fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "restore from the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

// confirm prints prompt and reads a yes/no answer from the command's input.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)

	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && response == "" {
		return false, fmt.Errorf("reading input: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
