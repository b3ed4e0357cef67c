package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/prodfile/pkg/backup"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <dest>",
		Short: "Write a compressed copy of the data file",
		Long: `Write a zstd-compressed copy of the data file to dest. dest is
replaced atomically.

Example:
  prodfile backup products.dat.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}

			res, err := backup.Create(rt.Store, args[0])
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}
			cmd.Printf("Backed up %d records (%d bytes) to %s\n", res.Slots, res.Bytes, res.Path)
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	restoreCmd := &cobra.Command{
		Use:   "restore <backup>",
		Short: "Replace the data file with a backup",
		Long: `Decompress a backup written by "prodfile backup" into the data file.
The backup is checked to hold whole records before anything is replaced.

Example:
  prodfile restore products.dat.zst --force`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")

			dst := sess.cfg.DataFile
			if _, err := os.Stat(dst); err == nil && !force {
				return fmt.Errorf("data file %s already exists (use --force to replace it)", dst)
			}

			res, err := backup.Restore(args[0], dst)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}
			cmd.Printf("Restored %d records to %s\n", res.Slots, res.Path)
			return nil
		},
	}

	restoreCmd.Flags().Bool("force", false, "Replace an existing data file")
	return restoreCmd
}
