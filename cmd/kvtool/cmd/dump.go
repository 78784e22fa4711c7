package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/keyvalue"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the records of a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withValues, _ := cmd.Flags().GetBool("values")
			limit, _ := cmd.Flags().GetInt("limit")

			out := cmd.OutOrStdout()
			n := 0
			err := forEachRecord(configFrom(cmd), args[0], func(kv *keyvalue.KeyValue) error {
				if limit > 0 && n >= limit {
					return errStop
				}
				n++
				if withValues {
					_, err := fmt.Fprintf(out, "%s\t%s\n", kv, common.ToStringBinary(kv.Value()))
					return err
				}
				_, err := fmt.Fprintln(out, kv)
				return err
			})
			if errors.Is(err, errStop) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().Bool("values", false, "Print values after the record")
	cmd.Flags().Int("limit", 0, "Stop after this many records, 0 for all")
	return cmd
}
