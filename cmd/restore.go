package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dreamcatcher45/jserve/pkg/storage"
)

func newRestoreCmd(v *viper.Viper) *cobra.Command {
	restoreCmd := &cobra.Command{
		Use:   "restore --from <SNAPSHOT> -f <FILE>",
		Short: "Rebuild the JSON database file from a snapshot",
		Long: `Reads a snapshot written with --snapshot and writes its contents to the
JSON database file given with -f, replacing the file if it exists.

Example:
  jserve restore --from db.jsnap -f db.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := v.GetString("restore.from")
			if from == "" {
				return errors.New("--from is required")
			}
			file := v.GetString("file")
			if file == "" {
				return errors.New("missing required -f argument")
			}

			db, err := storage.RestoreSnapshot(from, file)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d collections from %s to %s\n", len(db.Names()), from, file)
			return nil
		},
	}

	restoreCmd.Flags().String("from", "", "Snapshot file to restore from (required)")
	v.BindPFlag("restore.from", restoreCmd.Flags().Lookup("from"))

	return restoreCmd
}
