package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mantoudev/hbase/comparer"
)

func newSortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort <in> <out>",
		Short: "Sort a stream under the configured comparator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			cmp, err := cfg.Comparer()
			if err != nil {
				return err
			}
			kvs, err := readRecords(cfg, args[0])
			if err != nil {
				return err
			}
			comparer.Sort(cmp, kvs)
			if _, err := writeRecords(cfg, args[1], kvs); err != nil {
				return err
			}
			zap.L().Info("Sorted records",
				zap.String("comparator", cmp.Name()),
				zap.Int("records", len(kvs)))
			fmt.Fprintf(cmd.OutOrStdout(), "sorted %d records\n", len(kvs))
			return nil
		},
	}
}
